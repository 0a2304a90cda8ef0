package api

import (
	"net/http"

	"github.com/Domenick1991/flightclaim/internal/service/compensation"
	"github.com/gin-gonic/gin"
)

type EstimateHandler struct{}

type estimateQuery struct {
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
	Passengers  int    `form:"passengers,default=1" binding:"min=1,max=9"`
}

type estimateResponse struct {
	compensation.Result
	Fees compensation.FeeSplit `json:"fees"`
}

func NewEstimateHandler() *EstimateHandler {
	return &EstimateHandler{}
}

func (h *EstimateHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.estimate)
}

func (h *EstimateHandler) estimate(c *gin.Context) {
	var q estimateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	result := compensation.Estimate(q.Origin, q.Destination, q.Passengers)
	c.JSON(http.StatusOK, estimateResponse{
		Result: result,
		Fees:   compensation.SplitFees(result.Total),
	})
}
