package cmd

const DESCRIPTION = `
CookieMaster decides which cookies a browser may keep. Cookies are
blocked unless their domain is on the allow list, third-party cookies
follow a separate policy, and allowed domains can be limited to
session cookies.

The browser extension talks to this program as a native messaging
host; the same policy is available here from the command line and
over JSON-RPC for other tools.
`

const (
	CheckDescription = `The check command runs a Set-Cookie header through the
current policy and shows what would be forwarded.

Example:
        cookiemaster check --request-host www.example.org "sid=1; Path=/"

`
	CspDescription = `The csp command adds the hash of the cookie hook script
to the script-src directive of a Content-Security-Policy value.

--set-script stores the hash of a replacement hook script after
checking that it parses. --reset-script goes back to the built-in one.

Example:
        cookiemaster csp "default-src 'self'"
        cookiemaster csp --set-script hook.js

`
	DateDescription = `The date command parses a cookie expiry date the way the
policy engine does and prints it in UTC.

Example:
        cookiemaster date "Wed, 21 Oct 2015 07:28:00 GMT"

`
	AllowDescription = `The allow command edits the list of domains cookies are
accepted from. A domain starting with a dot also covers its
subdomains. Session entries strip expiry dates from cookies.

Example:
        cookiemaster allow add .example.org
        cookiemaster allow add --session accounts.example.com
        cookiemaster allow remove .example.org
        cookiemaster allow list

`
	ThirdPartyDescription = `The third-party command shows or sets how cookies from
sites other than the one in the address bar are treated:
AllowAll, AllowNone or AllowIfOtherwiseAllowed.

Example:
        cookiemaster third-party AllowIfOtherwiseAllowed

`
	ResetDescription = `The reset command restores the default configuration and
empties the allow list.

Example:
        cookiemaster reset

`
	AuditDescription = `The audit command reads a browser's cookie database and
shows what the current policy would do with every cookie in it.
Firefox, Chrome and Netscape cookies.txt stores are supported.

Example:
        cookiemaster audit
        cookiemaster audit ~/.mozilla/firefox/abcd.default/cookies.sqlite

`
	ActivityDescription = `The activity command shows or prunes the history of
allowed and blocked cookie domains kept by the native host.

Example:
        cookiemaster activity list --blocked --since 24h
        cookiemaster activity prune --older-than 720h

`
	ServeDescription = `The serve command exposes the policy over JSON-RPC 2.0 on
a local HTTP and WebSocket port. Requests must carry the
access token as a bearer token.

Example:
        cookiemaster serve --show-token

`
	NativeHostDescription = `The native-host command registers this program with
browsers so the CookieMaster extension can start it.

Example:
        cookiemaster native-host install --firefox-extension-id cookiemaster@example.org
        cookiemaster native-host status

`
)
