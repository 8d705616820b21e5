package services

import (
	"context"
	"strings"

	"github.com/JPGarCar/tridu-server/internal/errors"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/models"
	"github.com/JPGarCar/tridu-server/internal/repository"
)

// CommentServiceRepository defines the repository methods needed by CommentService
type CommentServiceRepository interface {
	repository.EntrantRepository
	repository.ParticipantRepository
	repository.RelayTeamRepository
}

// CommentService handles comment threads on participants and relay teams
type CommentService struct {
	log  logger.Logger
	repo CommentServiceRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(log logger.Logger, repo CommentServiceRepository) *CommentService {
	return &CommentService{log: log, repo: repo}
}

// ListComments returns an entrant's comments, newest first
func (s *CommentService) ListComments(ctx context.Context, kind models.EntrantKind, entrantID int) ([]models.Comment, error) {
	if err := s.exists(ctx, kind, entrantID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, kind, entrantID)
}

// CreateComment adds a comment. A nil writer records a system comment.
func (s *CommentService) CreateComment(ctx context.Context, kind models.EntrantKind, entrantID int, writerID *int, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Validation("comment is required")
	}
	if err := s.exists(ctx, kind, entrantID); err != nil {
		return nil, err
	}
	c, err := s.repo.CreateComment(ctx, kind, entrantID, writerID, text)
	if err != nil {
		return nil, fromRepo(err, nil)
	}
	return c, nil
}

// DeleteComment removes a comment
func (s *CommentService) DeleteComment(ctx context.Context, kind models.EntrantKind, commentID int) error {
	if !kind.Valid() {
		return errors.InvalidInputf("unknown entrant type %s", kind)
	}
	if err := s.repo.DeleteComment(ctx, kind, commentID); err != nil {
		return fromRepo(err, errors.NotFoundf("Comment with id %d does not exist", commentID))
	}
	s.log.Info("Comment deleted", "entrant_type", kind, "comment_id", commentID)
	return nil
}

func (s *CommentService) exists(ctx context.Context, kind models.EntrantKind, id int) error {
	var err error
	switch kind {
	case models.EntrantParticipant:
		_, err = s.repo.GetParticipant(ctx, id)
	case models.EntrantRelayTeam:
		_, err = s.repo.GetRelayTeam(ctx, id)
	default:
		return errors.InvalidInputf("unknown entrant type %s", kind)
	}
	return fromRepo(err, entrantNotFound(kind, id))
}
