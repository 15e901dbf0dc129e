package validators

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lessonForm struct {
	Title    string `json:"title" validate:"required,notblank"`
	VideoURL string `json:"video_url" validate:"omitempty,video_ref"`
	Duration int    `json:"duration" validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, Struct(&lessonForm{Title: "Intro", VideoURL: "https://youtu.be/dQw4w9WgXcQ"}))
	assert.Nil(t, Struct(&lessonForm{Title: "Intro", VideoURL: "https://cdn.example.com/a.mp4"}))

	errs := Struct(&lessonForm{Title: "   ", VideoURL: "not a link", Duration: -1})
	require.Len(t, errs, 3)
	assert.Equal(t, "title cannot be blank", errs["title"])
	assert.Contains(t, errs["video_url"], "video link")
	assert.Contains(t, errs["duration"], "duration")
}

func TestBodyAndID(t *testing.T) {
	app := fiber.New()
	app.Post("/lesson/:id", ID("id", "lessonID"), Body("validatedLesson", &lessonForm{}), func(c *fiber.Ctx) error {
		form := c.Locals("validatedLesson").(*lessonForm)
		return c.JSON(fiber.Map{"id": c.Locals("lessonID"), "title": form.Title})
	})

	send := func(path, body string) (int, map[string]interface{}) {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &out))
		return resp.StatusCode, out
	}

	code, out := send("/lesson/4", `{"title":"Intro"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(4), out["id"])
	assert.Equal(t, "Intro", out["title"])

	code, _ = send("/lesson/zero", `{"title":"Intro"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = send("/lesson/4", `{"title":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Validation failed!", out["message"])
	assert.Contains(t, out["data"], "title")

	code, _ = send("/lesson/4", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, code)
}
