package hook

// pluginSource is the must-use plugin template. It writes only while the
// journal exists.
const pluginSource = `<?php
/**
 * Plugin Name: domainlog hook
 * Description: Appends text domain events to the domainlog journal while a session is active.
 *
 * Generated by "domainlog hook install", do not edit manually.
 * Remove with "domainlog hook uninstall".
 */

if ( ! defined( 'ABSPATH' ) ) {
	return;
}

function domainlog_append( array $event ) {
	$journal = '{{ php .Journal }}';
	if ( ! is_file( $journal ) ) {
		return;
	}
	$event['time'] = gmdate( 'Y-m-d\TH:i:s\Z' );
	file_put_contents( $journal, json_encode( $event, JSON_UNESCAPED_SLASHES ) . "\n", FILE_APPEND | LOCK_EX );
}

$GLOBALS['domainlog_requested'] = array();

add_action( 'load_textdomain', function ( $domain, $mofile ) {
	$GLOBALS['domainlog_requested'][ $domain ] = $mofile;
}, 10, 2 );

add_filter( 'load_textdomain_mofile', function ( $mofile, $domain ) {
	$requested = isset( $GLOBALS['domainlog_requested'][ $domain ] ) ? $GLOBALS['domainlog_requested'][ $domain ] : $mofile;
	$event     = array( 'kind' => 'load', 'domain' => $domain, 'path' => $requested );
	if ( $mofile !== $requested ) {
		$event['resolved'] = $mofile;
	}
	domainlog_append( $event );
	return $mofile;
}, PHP_INT_MAX, 2 );

add_action( 'unload_textdomain', function ( $domain ) {
	domainlog_append( array( 'kind' => 'unload', 'domain' => $domain ) );
} );

// The domain is the last argument of every translation filter.
foreach ( array( 'gettext' => 3, 'gettext_with_context' => 4, 'ngettext' => 5, 'ngettext_with_context' => 6 ) as $domainlog_hook => $domainlog_args ) {
	add_filter( $domainlog_hook, function () {
		$args = func_get_args();
		domainlog_append( array( 'kind' => 'use', 'domain' => end( $args ) ) );
		return $args[0];
	}, PHP_INT_MAX, $domainlog_args );
}

add_action( 'shutdown', function () {
	if ( function_exists( 'get_available_languages' ) && function_exists( 'wp_get_installed_translations' ) ) {
		$core      = wp_get_installed_translations( 'core' );
		$installed = array();
		foreach ( get_available_languages() as $locale ) {
			$installed[ $locale ] = isset( $core['default'][ $locale ]['PO-Revision-Date'] )
				? $core['default'][ $locale ]['PO-Revision-Date']
				: '';
		}
		$event = array(
			'kind'      => 'installed',
			'installed' => (object) $installed,
		);
		if ( defined( 'WPLANG' ) ) {
			$event['wplang'] = (string) WPLANG;
		}
		domainlog_append( $event );
	}
	if ( empty( $GLOBALS['l10n'] ) ) {
		return;
	}
	foreach ( $GLOBALS['l10n'] as $domain => $mo ) {
		if ( ! isset( $mo->entries ) ) {
			continue;
		}
		$headers = isset( $mo->headers ) ? (array) $mo->headers : array();
		domainlog_append( array(
			'kind'    => 'catalog',
			'domain'  => $domain,
			'entries' => count( $mo->entries ),
			'headers' => (object) $headers,
		) );
	}
} );
`
