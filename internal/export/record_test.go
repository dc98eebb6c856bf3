package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("FS01"), "FS01"},
		{"integer", Int(42), "42"},
		{"zero", Int(0), "0"},
		{"fraction", Number(1.5), "1.5"},
		{"true", Bool(true), "Yes"},
		{"false", Bool(false), "No"},
		{"nested", Nested(NewRecord()), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Text())
		})
	}
}

func TestRecordSetReplacesInPlace(t *testing.T) {
	rec := NewRecord().Set("a", String("1")).Set("b", String("2")).Set("a", String("3"))

	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, []string{"a", "b"}, rec.Paths())
	v, ok := rec.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", v.Text())
}

func TestRecordLeavesFlattenNested(t *testing.T) {
	rec := NewRecord().
		Set("title", String("Outage")).
		Set("resolution", Nested(NewRecord().
			Set("summary", String("Restarted")).
			Set("timeSpentMinutes", Int(0))))

	assert.Equal(t, map[string]string{
		"title":                       "Outage",
		"resolution.summary":          "Restarted",
		"resolution.timeSpentMinutes": "0",
	}, rec.Leaves())
	assert.Equal(t, []string{"title", "resolution.summary", "resolution.timeSpentMinutes"}, rec.Paths())
}

func TestRecordNilIsEmpty(t *testing.T) {
	var rec *Record
	assert.Zero(t, rec.Len())
	_, ok := rec.Get("x")
	assert.False(t, ok)
	assert.Empty(t, rec.Leaves())
}

func TestFromMap(t *testing.T) {
	rec := FromMap(map[string]any{
		"title": "Disk full",
		"count": float64(3),
		"flag":  true,
		"none":  nil,
		"tags":  []any{"a", "b", float64(1)},
		"resolution": map[string]any{
			"summary": "Cleared logs",
		},
	})

	assert.Equal(t, map[string]string{
		"title":              "Disk full",
		"count":              "3",
		"flag":               "Yes",
		"none":               "",
		"tags":               "a,b,1",
		"resolution.summary": "Cleared logs",
	}, rec.Leaves())
	assert.Equal(t, []string{"count", "flag", "none", "resolution.summary", "tags", "title"}, rec.Paths())
}
