package sending

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
)

// Service sends invites and opens embedded flows for documents and groups.
type Service struct {
	repo     Repository
	resolver *entity.Resolver
	logger   *slog.Logger
}

// NewService creates a sending service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		resolver: entity.NewResolver(repo, logger),
		logger:   logger,
	}
}

// resolve identifies the target of a sending operation. Groups are tried
// first and fetched in their summary form, which carries per-document roles.
func (s *Service) resolve(ctx context.Context, token, id string, kind entity.Kind) (*entity.Resolved, error) {
	return s.resolver.Resolve(ctx, token, id, kind, entity.GroupFirst, entity.GroupSummary)
}

const (
	targetBlank = "blank"
	targetSelf  = "self"
)

// redirectTarget drops the target whenever there is no redirect to apply it to.
func redirectTarget(uri, target, def string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", nil
	}
	switch target {
	case "":
		return def, nil
	case targetBlank, targetSelf:
		return target, nil
	default:
		return "", fmt.Errorf("%w: redirect_target must be blank or self", ErrInvalidInput)
	}
}

func normalizeAction(action string) (string, error) {
	switch a := strings.ToLower(strings.TrimSpace(action)); a {
	case "":
		return "sign", nil
	case "view", "sign", "approve":
		return a, nil
	default:
		return "", fmt.Errorf("%w: action must be one of view, sign, approve", ErrInvalidInput)
	}
}

func report(ctx context.Context, progress ProgressFunc, done, total float64, message string) {
	if progress != nil {
		progress(ctx, done, total, message)
	}
}
