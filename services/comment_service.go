package services

import (
	"context"
	"errors"
	"strings"

	"shop-api/models"
	"shop-api/repositories"
	"shop-api/sentiment"
)

type CommentService struct {
	comments   repositories.CommentStore
	products   repositories.ProductStore
	classifier sentiment.Classifier
}

func NewCommentService(comments repositories.CommentStore, products repositories.ProductStore, classifier sentiment.Classifier) *CommentService {
	return &CommentService{
		comments:   comments,
		products:   products,
		classifier: classifier,
	}
}

func (s *CommentService) Create(ctx context.Context, principal models.Principal, req models.CreateCommentRequest) (*models.CommentView, error) {
	if req.Product == nil {
		return nil, validationError("product", "Product is required")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, validationError("text", "Text is required")
	}
	if req.Rating == nil {
		return nil, validationError("rating", "Rating is required")
	}
	if *req.Rating < 0 {
		return nil, validationError("rating", "Rating must not be negative")
	}

	product, err := s.products.GetProductByID(ctx, *req.Product)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, internalFault("get product", err)
	}
	if err != nil || !product.IsActive {
		return nil, validationError("product", "Product does not exist")
	}

	comment := &models.Comment{
		UserID:    principal.UserID,
		ProductID: product.ID,
		Text:      req.Text,
		Rating:    *req.Rating,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("product", "Product does not exist")
		}
		return nil, internalFault("create comment", err)
	}

	return s.view(*comment)
}

func (s *CommentService) Get(ctx context.Context, id int) (*models.CommentView, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Comment not found")
		}
		return nil, internalFault("get comment", err)
	}
	return s.view(*comment)
}

func (s *CommentService) List(ctx context.Context, productID int, page Page) (*models.PaginationResponse, error) {
	comments, total, err := s.comments.ListComments(ctx, models.CommentFilter{
		ProductID: productID,
		Limit:     page.Limit,
		Offset:    page.Offset(),
	})
	if err != nil {
		return nil, internalFault("list comments", err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		v, err := s.view(c)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Comments retrieved successfully",
		Data:    views,
		Meta:    page.Meta(total),
	}, nil
}

// Delete removes a comment. Only its author or staff may do so.
func (s *CommentService) Delete(ctx context.Context, principal models.Principal, id int) error {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Comment not found")
		}
		return internalFault("get comment", err)
	}
	if !principal.CanAccess(comment.UserID) {
		return forbidden("You can only delete your own comments")
	}

	if err := s.comments.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("Comment not found")
		}
		return internalFault("delete comment", err)
	}
	return nil
}

// view labels the comment on every call; labels are never persisted.
func (s *CommentService) view(c models.Comment) (*models.CommentView, error) {
	label, err := s.classifier.Classify(c.Text)
	if err != nil {
		return nil, internalFault("classify comment", err)
	}
	return &models.CommentView{Comment: c, Sentiment: string(label)}, nil
}
