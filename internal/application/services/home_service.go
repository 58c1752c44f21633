package services

import (
	"context"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/catalog"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
)

// Home feed sizes.
const (
	HomePostLimit  = 6
	HomeMerchLimit = 8
)

// HomeFeed is the landing page payload.
type HomeFeed struct {
	Featured *ContentCard       `json:"featured"`
	Posts    []PostView         `json:"posts"`
	Merch    []*catalog.Product `json:"merch"`
}

// HomeService composes the landing page from the other services.
type HomeService struct {
	content   *ContentService
	community *CommunityService
	catalog   *CatalogService
}

// NewHomeService creates a new home service
func NewHomeService(content *ContentService, community *CommunityService, catalog *CatalogService) *HomeService {
	return &HomeService{content: content, community: community, catalog: catalog}
}

// Get loads the featured item, recent posts and newest merch.
func (s *HomeService) Get(ctx context.Context, viewer *user.Profile) (*HomeFeed, error) {
	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}

	featured, err := s.content.Featured(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.community.ListPosts(ctx, viewer, HomePostLimit)
	if err != nil {
		return nil, err
	}
	merch, err := s.catalog.Latest(ctx, HomeMerchLimit)
	if err != nil {
		return nil, err
	}
	if merch == nil {
		merch = []*catalog.Product{}
	}
	return &HomeFeed{Featured: featured, Posts: posts, Merch: merch}, nil
}
