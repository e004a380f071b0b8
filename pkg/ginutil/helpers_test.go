package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextFor(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 10},
		{"page=3&pageSize=20", 3, 20},
		{"page=0&pageSize=-1", 1, 10},
		{"page=x&per_page=5", 1, 5},
		{"pageSize=1000", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, size := Pagination(contextFor(tt.query), 10, 100)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.size, size)
		})
	}
}
