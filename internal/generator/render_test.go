package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/kotoba/internal/models"
)

func TestThirdPerson(t *testing.T) {
	tests := []struct {
		gloss string
		want  string
	}{
		{"to read", "reads"},
		{"to go", "goes"},
		{"to study", "studies"},
		{"to play", "plays"},
		{"to watch", "watches"},
		{"to wash", "washes"},
		{"to go to bed", "goes to bed"},
		{"to be", "is"},
		{"to have", "has"},
	}
	for _, tt := range tests {
		t.Run(tt.gloss, func(t *testing.T) {
			c := models.VerbComponent(models.VerbEntry{Hiragana: "x", English: tt.gloss}, models.EntityPerson, "A")
			assert.Equal(t, tt.want, thirdPerson(c))
		})
	}
	assert.Equal(t, models.NotFound, thirdPerson(models.MissingComponent(models.ComponentVerb, "", "")))
}

func TestAppendEnglish(t *testing.T) {
	assert.Equal(t, "Teacher reads book today.", appendEnglish("Teacher reads book.", "today"))
	assert.Equal(t, "teacher's book today", appendEnglish("teacher's book", "today"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Teacher", capitalize("teacher"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, models.NotFound, capitalize(models.NotFound))
}
