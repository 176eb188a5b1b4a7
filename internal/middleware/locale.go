package middleware

import (
	"github.com/gin-gonic/gin"
)

type languageMatcher interface {
	Match(prefs ...string) string
}

// Locale stores the response language under "lang": ?lang= first, then
// Accept-Language.
func Locale(m languageMatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.Match(c.Query("lang"), c.GetHeader("Accept-Language"))
		c.Set("lang", lang)
		c.Header("Content-Language", lang)
		c.Next()
	}
}
