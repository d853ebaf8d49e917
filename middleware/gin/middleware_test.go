package ginmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reoring/shapegen/examples/constrained"
)

func TestValidateJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/things", ValidateJSON(constrained.ParsePutThingInput), func(c *gin.Context) {
		in, ok := Input[constrained.PutThingInput](c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, in.Name.Value())
	})

	cases := []struct {
		body   string
		status int
		want   string
	}{
		{`{"name": "abc"}`, http.StatusOK, "abc"},
		{`{"name": ""}`, http.StatusBadRequest, `"reason":"constraint violation"`},
		{`{"name": 1}`, http.StatusBadRequest, `"reason":"deserialize"`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/things", strings.NewReader(tc.body)))
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.body, rec.Code, tc.status)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Errorf("%s: body %q does not contain %q", tc.body, rec.Body.String(), tc.want)
		}
	}
}
