package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondJSON(c, "success", http.StatusCreated, "created", gin.H{"id": "1"}, nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, http.StatusCreated, body["status_code"])
	_, hasErrors := body["errors"]
	assert.False(t, hasErrors)
}

type createVenue struct {
	Name         string `validate:"required"`
	Capacity     int    `validate:"min=1"`
	ContactEmail string `validate:"omitempty,email"`
}

func TestFieldErrors(t *testing.T) {
	err := validator.New().Struct(createVenue{Capacity: 0, ContactEmail: "nope"})
	require.Error(t, err)

	fields, ok := FieldErrors(err).(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "min=1", fields["capacity"])
	assert.Equal(t, "email", fields["contact_email"])
}

func TestFieldErrors_PlainError(t *testing.T) {
	assert.Equal(t, "unexpected EOF", FieldErrors(errors.New("unexpected EOF")))
}
