// Package cookies imports a logged-in browser session for the platform from
// a browser cookie store. Firefox (moz_cookies) and Chrome-family (cookies,
// unencrypted values only) SQLite databases and Netscape text exports are
// supported. Only cookies for the platform's domains are returned.
//
// Cookie values are never logged; only names and the browser name may be.
package cookies
