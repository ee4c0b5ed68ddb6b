package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expohub/shared"
	"expohub/shared/constant"
	"expohub/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "zero total", total: 0, limit: 10, want: 1},
		{name: "zero limit", total: 25, limit: 0, want: 1},
		{name: "exact pages", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	req := struct {
		Location string `db:"location"`
		Size     string `db:"size"`
		Notes    string `json:"notes"`
	}{
		Location: "hall B",
	}

	fields := shared.TransformFields(req, "user-1")

	assert.Equal(t, "hall B", fields["location"])
	assert.NotContains(t, fields, "size")
	assert.NotContains(t, fields, "notes")
	assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booth:get:booth-1", shared.BuildCacheKey("booth:get", "booth-1"))
}

func TestBuildCacheKeyWithQuery_DistinctFilters(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}

	filterA := shared.FilterByID("expo-1", "expo_id", "booths")
	filterB := shared.FilterByID("expo-2", "expo_id", "booths")

	keyA := shared.BuildCacheKeyWithQuery("booth:gets", params, filterA)
	keyB := shared.BuildCacheKeyWithQuery("booth:gets", params, filterB)

	assert.NotEqual(t, keyA, keyB)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("appt-1", "id", "appointments")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(appointments.id = :id)", where)
	assert.Equal(t, "appt-1", args["id"])
}
