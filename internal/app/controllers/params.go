package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
)

// parseIDParam reads a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Invalid " + resource + " ID, must be a positive integer")
	}
	return id, nil
}
