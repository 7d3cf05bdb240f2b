package controllers

import (
	"net/http"
	"strconv"

	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	commentService *services.CommentService
}

func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// @Summary List comments
// @Description Every comment carries a sentiment label computed for this response
// @Tags Comments
// @Produce json
// @Param product query int false "Product ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse{data=[]models.CommentView}
// @Router /comments [get]
func (ctrl *CommentController) GetComments(c *gin.Context) {
	productID, _ := strconv.Atoi(c.Query("product"))

	result, err := ctrl.commentService.List(c.Request.Context(), productID, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Get comment
// @Tags Comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Response{data=models.CommentView}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (ctrl *CommentController) GetComment(c *gin.Context) {
	id, ok := paramID(c, "comment")
	if !ok {
		return
	}

	comment, err := ctrl.commentService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Comment retrieved successfully",
		Data:    comment,
	})
}

// @Summary Create comment
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCommentRequest true "Comment"
// @Success 201 {object} models.Response{data=models.CommentView}
// @Failure 400 {object} models.ErrorResponse
// @Router /comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := ctrl.commentService.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Comment created successfully",
		Data:    comment,
	})
}

// @Summary Delete comment
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "comment")
	if !ok {
		return
	}

	if err := ctrl.commentService.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Comment deleted successfully",
	})
}
