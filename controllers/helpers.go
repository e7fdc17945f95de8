package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"contenthub/utils"
)

// bindingErrors turns gin binding failures into field-level messages
// for the validation envelope.
func bindingErrors(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				msgs = append(msgs, field+" is required")
			case "email":
				msgs = append(msgs, field+" must be a valid email")
			case "min":
				msgs = append(msgs, field+" must be at least "+fe.Param()+" characters")
			case "max":
				msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
			case "oneof":
				msgs = append(msgs, field+" must be one of: "+fe.Param())
			default:
				msgs = append(msgs, field+" is invalid")
			}
		}
		return msgs
	}
	return []string{"invalid request payload"}
}

// pathID parses the numeric :id path parameter.
func pathID(ctx *gin.Context) (uint, error) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, utils.NewValidationError(raw + " is not a valid id")
	}
	return uint(id), nil
}
