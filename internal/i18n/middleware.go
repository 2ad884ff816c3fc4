package i18n

import "net/http"

const langCookie = "lang"

// Middleware resolves the request language from a ?lang= switch, the lang
// cookie or Accept-Language, in that order. A ?lang= value is remembered in
// the cookie.
func Middleware(cookiePath string, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var lang string
			if q := r.URL.Query().Get("lang"); q != "" {
				lang = Match(q)
				http.SetCookie(w, &http.Cookie{
					Name:     langCookie,
					Value:    lang,
					Path:     cookiePath,
					MaxAge:   365 * 24 * 3600,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			} else {
				var pref string
				if c, err := r.Cookie(langCookie); err == nil {
					pref = c.Value
				}
				lang = Match(pref, r.Header.Get("Accept-Language"))
			}
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), lang)))
		})
	}
}
