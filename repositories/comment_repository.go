package repositories

import (
	"context"
	"fmt"

	"shop-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (user_id, product_id, text, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, comment.UserID, comment.ProductID, comment.Text, comment.Rating).
		Scan(&comment.ID, &comment.CreatedAt)
	return mapError(err)
}

func (r *CommentRepository) GetCommentByID(ctx context.Context, id int) (*models.Comment, error) {
	query := `SELECT id, user_id, product_id, text, rating, created_at FROM comments WHERE id = $1`

	var cm models.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cm.ID, &cm.UserID, &cm.ProductID, &cm.Text, &cm.Rating, &cm.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &cm, nil
}

func (r *CommentRepository) ListComments(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	where := ""
	args := []any{}
	if filter.ProductID > 0 {
		args = append(args, filter.ProductID)
		where = " WHERE product_id = $1"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT id, user_id, product_id, text, rating, created_at FROM comments` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.ProductID, &cm.Text, &cm.Rating, &cm.CreatedAt); err != nil {
			return nil, 0, err
		}
		comments = append(comments, cm)
	}
	return comments, total, rows.Err()
}

func (r *CommentRepository) DeleteComment(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
