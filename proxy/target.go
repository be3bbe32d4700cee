package proxy

import (
	"net/url"
	"strings"
)

// composeTargetURL builds the outbound URL from the selected upstream's
// base URL and the incoming request's URL. Path joining is delegated to
// joinURLPath so that a request path carrying percent-encoded reserved
// characters (e.g. %2F) keeps its raw encoding instead of being
// re-escaped from the decoded form.
func composeTargetURL(base *url.URL, in *url.URL) *url.URL {
	target := *base
	target.Path, target.RawPath = joinURLPath(base, in)

	if base.RawQuery == "" {
		target.RawQuery = in.RawQuery
	} else if in.RawQuery == "" {
		target.RawQuery = base.RawQuery
	} else {
		target.RawQuery = base.RawQuery + "&" + in.RawQuery
	}

	return &target
}

// joinURLPath concatenates a's path and b's path, treating a's path as a
// prefix. Reproduced from net/http/httputil.ReverseProxy's own unexported
// helper of the same name, since it isn't exported for reuse.
func joinURLPath(a, b *url.URL) (path, rawpath string) {
	if a.RawPath == "" && b.RawPath == "" {
		return singleJoiningSlash(a.Path, b.Path), ""
	}

	apath := a.EscapedPath()
	bpath := b.EscapedPath()

	aslash := strings.HasSuffix(apath, "/")
	bslash := strings.HasPrefix(bpath, "/")

	switch {
	case aslash && bslash:
		return a.Path + b.Path[1:], apath + bpath[1:]
	case !aslash && !bslash:
		return a.Path + "/" + b.Path, apath + "/" + bpath
	}
	return a.Path + b.Path, apath + bpath
}

func singleJoiningSlash(a, b string) string {
	aslash := strings.HasSuffix(a, "/")
	bslash := strings.HasPrefix(b, "/")
	switch {
	case aslash && bslash:
		return a + b[1:]
	case !aslash && !bslash:
		return a + "/" + b
	}
	return a + b
}
