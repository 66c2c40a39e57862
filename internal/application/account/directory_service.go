package account

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/shared"
)

// UserListFilter narrows the admin user directory
type UserListFilter struct {
	Search   string
	Role     string
	OrderBy  string
	OrderDir string
	Page     int
	PageSize int
}

// DirectoryService lets admins browse accounts and their ledgers
type DirectoryService struct {
	users account.UserRepository
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(users account.UserRepository) *DirectoryService {
	return &DirectoryService{users: users}
}

// ListUsers returns a page of users with their ledger totals
func (s *DirectoryService) ListUsers(ctx context.Context, f UserListFilter) (*shared.Paginated[UserResponse], error) {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter = filter.Normalize()

	query := account.UserFilter{Filter: filter}
	if f.Role != "" {
		role := account.Role(strings.ToLower(strings.TrimSpace(f.Role)))
		if !role.IsValid() {
			return nil, shared.NewValidationError("unknown role %q", f.Role)
		}
		query.Role = &role
	}

	users, total, err := s.users.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetUser returns one user with its ledger
func (s *DirectoryService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := ToUserResponse(user)
	return &res, nil
}
