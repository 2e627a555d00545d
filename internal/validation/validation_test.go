package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineItem struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type createRequest struct {
	Items  []lineItem `json:"items" validate:"required,min=1,dive"`
	Method string     `json:"paymentMethod" validate:"omitempty,oneof=cod card paypal"`
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(createRequest{
		Items:  []lineItem{{ProductID: "nope", Quantity: 0}},
		Method: "cash",
	})
	require.Error(t, err)

	msgs := Messages(err)
	assert.Equal(t, "must be a valid id", msgs["items[0].productId"])
	assert.Equal(t, "is required", msgs["items[0].quantity"])
	assert.Equal(t, "must be one of: cod card paypal", msgs["paymentMethod"])
}

type reviewRequest struct {
	Comment string   `json:"comment" validate:"min=3,max=5"`
	Tags    []string `json:"tags" validate:"min=1"`
	Rating  int      `json:"rating" validate:"max=5"`
}

func TestLengthMessagesByKind(t *testing.T) {
	v := New()

	msgs := Messages(v.Struct(reviewRequest{Comment: "ok", Rating: 9}))
	assert.Equal(t, "must be at least 3 character(s)", msgs["comment"])
	assert.Equal(t, "must have at least 1 element(s)", msgs["tags"])
	assert.Equal(t, "must be at most 5", msgs["rating"])

	msgs = Messages(v.Struct(reviewRequest{Comment: "too long", Tags: []string{"a"}}))
	assert.Equal(t, "must be at most 5 character(s)", msgs["comment"])
}

func TestValidatorAcceptsValidRequest(t *testing.T) {
	v := New()
	err := v.Struct(createRequest{
		Items: []lineItem{{ProductID: "65a1f0c2e4b0a1b2c3d4e5f6", Quantity: 2}},
	})
	assert.NoError(t, err)
}

func TestBindAndValidateWrites400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	r := gin.New()
	r.POST("/orders", func(c *gin.Context) {
		var req createRequest
		if err := BindAndValidate(c, &req, v); err != nil {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	for name, body := range map[string]string{
		"malformed": `{"items":`,
		"invalid":   `{"items":[]}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Contains(t, w.Body.String(), `"success":false`, name)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"items":[{"productId":"65a1f0c2e4b0a1b2c3d4e5f6","quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}
