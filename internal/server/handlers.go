package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/voluntree/voluntree/internal/catalog"
	"github.com/voluntree/voluntree/internal/filtering"
	"github.com/voluntree/voluntree/internal/profile"
	"github.com/voluntree/voluntree/internal/state"
)

const dateParamLayout = "2006-01-02"

// opportunityItem decorates a catalog record with the user's favorite badge.
type opportunityItem struct {
	catalog.Opportunity
	Favorite bool `json:"favorite"`
}

type opportunityList struct {
	Items   []opportunityItem `json:"items"`
	Matches int               `json:"matches"`
}

type recommendationList struct {
	Items  []opportunityItem `json:"items"`
	Source string            `json:"source"`
}

type facetList struct {
	Locations []string `json:"locations"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

type toggleResponse struct {
	Favorite  bool         `json:"favorite"`
	Favorites []any        `json:"favorites"`
	Notice    state.Notice `json:"notice"`
}

type quizRequest struct {
	Description string `json:"description"`
}

type quizResponse struct {
	Interests []string        `json:"interests"`
	Skills    []string        `json:"skills"`
	Profile   profile.Profile `json:"profile"`
}

type homeResponse struct {
	App    string   `json:"app"`
	Routes []string `json:"routes"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, homeResponse{
		App:    "voluntree",
		Routes: []string{"/api/opportunities", "/api/recommendations", "/api/profile", "/api/favorites", "/api/facets", "/api/quiz"},
	})
}

// handleOpportunities filters the catalog by the query facets and orders the
// result by affinity with the stored profile.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	current := s.deps.Session.Profile()
	items := filtering.Apply(s.logger, criteria, s.deps.Catalog.Items(), current.Interests, current.Skills)

	// An empty result is a normal outcome; the explicit matches count lets
	// the view render its "no matches" affordance.
	s.writeJSON(w, http.StatusOK, opportunityList{
		Items:   s.decorate(items),
		Matches: len(items),
	})
}

func (s *Server) handleOpportunity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_error", "opportunity id must be numeric")
		return
	}

	item, ok := s.deps.Catalog.FindByID(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "not_found", "no such opportunity")
		return
	}

	s.writeJSON(w, http.StatusOK, opportunityItem{
		Opportunity: item,
		Favorite:    s.deps.Session.IsFavorite(item.ID),
	})
}

func (s *Server) handleFacets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, facetList{
		Locations: s.deps.Catalog.Locations(),
		Skills:    s.deps.Catalog.SkillFacets(),
		Interests: s.deps.Catalog.InterestFacets(),
	})
}

// handleRecommendations runs the ranking engine for the stored profile.
// Failures never surface here: the engine always yields a usable list.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	current := s.deps.Session.Profile()
	result := s.deps.Engine.Recommend(r.Context(), current.Interests, s.deps.Catalog.Items())

	s.writeJSON(w, http.StatusOK, recommendationList{
		Items:  s.decorate(result.Items),
		Source: string(result.Source),
	})
}

func (s *Server) handleProfileGet(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.deps.Session.Profile())
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var submitted profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_error", "invalid profile JSON")
		return
	}

	updated, err := s.deps.Session.UpdateProfile(submitted)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_error", "email address is not valid")
		return
	}

	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"favorites": s.deps.Session.Favorites()})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")

	id := state.NormalizeID(raw)
	if numeric, ok := id.(int); ok {
		if _, found := s.deps.Catalog.FindByID(numeric); !found {
			s.writeError(w, http.StatusNotFound, "not_found", "no such opportunity")
			return
		}
	}

	notice := s.deps.Session.ToggleFavorite(id)

	s.writeJSON(w, http.StatusOK, toggleResponse{
		Favorite:  notice.Action == state.NoticeAdded,
		Favorites: s.deps.Session.Favorites(),
		Notice:    notice,
	})
}

// handleQuiz extracts interest and skill tags from free text and merges them
// into the profile. Extraction errors surface as an inline message with no
// synthesized fallback.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tags == nil {
		s.writeError(w, http.StatusServiceUnavailable, "unavailable", "tag extraction is not configured")
		return
	}

	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "validation_error", "invalid quiz JSON")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		s.writeError(w, http.StatusBadRequest, "validation_error", "description is required")
		return
	}

	extracted, err := s.deps.Tags.Extract(r.Context(), req.Description)
	if err != nil {
		s.logger.Warn("tag extraction failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "extraction_failed", "could not extract tags from your story")
		return
	}

	updated := s.deps.Session.ApplyTags(extracted.Interests, extracted.Skills)

	s.writeJSON(w, http.StatusOK, quizResponse{
		Interests: extracted.Interests,
		Skills:    extracted.Skills,
		Profile:   updated,
	})
}

func (s *Server) decorate(items []catalog.Opportunity) []opportunityItem {
	decorated := make([]opportunityItem, len(items))
	for i, item := range items {
		decorated[i] = opportunityItem{
			Opportunity: item,
			Favorite:    s.deps.Session.IsFavorite(item.ID),
		}
	}
	return decorated
}

func criteriaFromQuery(r *http.Request) (filtering.Criteria, error) {
	q := r.URL.Query()

	criteria := filtering.Criteria{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		Skill:    q.Get("skill"),
		Interest: q.Get("interest"),
	}

	var err error
	if criteria.DateFrom, err = dateParam(q.Get("date_from"), "date_from"); err != nil {
		return filtering.Criteria{}, err
	}
	if criteria.DateTo, err = dateParam(q.Get("date_to"), "date_to"); err != nil {
		return filtering.Criteria{}, err
	}

	return criteria, nil
}

func dateParam(value, name string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateParamLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s must use the YYYY-MM-DD format", name)
	}
	return &parsed, nil
}
