package httpresp

import "github.com/gin-gonic/gin"

// ListResponse wraps collection endpoints (waiting list, queue board,
// appointments by date) so clients always get a count next to the rows.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
