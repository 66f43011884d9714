package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func request(origins []string, origin, method string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.Any("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCORSExactAndWildcard(t *testing.T) {
	origins := []string{"http://localhost:5173", "https://*.vercel.app"}

	w := request(origins, "http://localhost:5173", http.MethodGet)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(origins, "https://rise-preview-42.vercel.app", http.MethodGet)
	assert.Equal(t, "https://rise-preview-42.vercel.app", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(origins, "https://evil.example.com", http.MethodGet)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = request(origins, "https://a.b.vercel.app", http.MethodGet)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	w := request(nil, "https://anything.test", http.MethodOptions)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://anything.test", w.Header().Get("Access-Control-Allow-Origin"))
}
