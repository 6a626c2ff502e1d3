// Package kakao talks to the Kakao Local and Kakao user REST APIs.
package kakao

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lessonradar/config"
	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	"lessonradar/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	searchAddressPath  = "/v2/local/search/address.json"
	coordToAddressPath = "/v2/local/geo/coord2address.json"
	coordToRegionPath  = "/v2/local/geo/coord2regioncode.json"
	searchKeywordPath  = "/v2/local/search/keyword.json"
	userProfilePath    = "/v2/user/me"

	// Kakao caps keyword search at 15 results per page and a 20km radius.
	keywordPageSize  = 15
	maxRadiusMeters  = 20000
	errorBodyMaxSize = 512
)

// ErrMissingAPIKey is returned for Local API calls when no REST API key is configured.
var ErrMissingAPIKey = errors.New("kakao rest api key is not configured")

// Client implements the map collaborators and the Kakao social login.
type Client struct {
	restAPIKey   string
	localBaseURL string
	userBaseURL  string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a Kakao client from the kakao config section.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		restAPIKey:   cfg.Kakao.RestAPIKey,
		localBaseURL: strings.TrimRight(cfg.Kakao.LocalBaseURL, "/"),
		userBaseURL:  strings.TrimRight(cfg.Kakao.UserBaseURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.Kakao.Timeout},
		logger:       logger,
	}
}

// Compile-time checks.
var (
	_ service.Geocoder          = (*Client)(nil)
	_ service.RegionResolver    = (*Client)(nil)
	_ service.PlacesSearcher    = (*Client)(nil)
	_ service.SocialAuthService = (*Client)(nil)
)

type addressDocument struct {
	AddressName string `json:"address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
	Address     *struct {
		AddressName string `json:"address_name"`
	} `json:"address"`
	RoadAddress *struct {
		AddressName string `json:"address_name"`
	} `json:"road_address"`
}

func (d addressDocument) resolved() entity.ResolvedAddress {
	var resolved entity.ResolvedAddress
	if d.RoadAddress != nil {
		resolved.RoadAddress = d.RoadAddress.AddressName
	}
	if d.Address != nil {
		resolved.LotAddress = d.Address.AddressName
	}

	return resolved
}

// SearchAddress geocodes free text with the address search API.
func (c *Client) SearchAddress(ctx context.Context, query string) (*entity.ResolvedAddress, error) {
	var body struct {
		Documents []addressDocument `json:"documents"`
	}
	if err := c.getLocal(ctx, searchAddressPath, url.Values{"query": {query}}, &body); err != nil {
		return nil, err
	}
	if len(body.Documents) == 0 {
		return nil, errors.Wrapf(service.ErrNoResults, "address %q", query)
	}

	doc := body.Documents[0]
	lng, errX := strconv.ParseFloat(doc.X, 64)
	lat, errY := strconv.ParseFloat(doc.Y, 64)
	if errX != nil || errY != nil {
		return nil, errors.Wrapf(service.ErrUnavailable, "address search returned invalid coordinates %q,%q", doc.X, doc.Y)
	}

	resolved := doc.resolved()
	resolved.Coordinate = entity.Coordinate{Lat: lat, Lng: lng}

	return &resolved, nil
}

// ReverseGeocode resolves a coordinate to its road and lot addresses.
func (c *Client) ReverseGeocode(ctx context.Context, coord entity.Coordinate) (*entity.ResolvedAddress, error) {
	var body struct {
		Documents []addressDocument `json:"documents"`
	}
	if err := c.getLocal(ctx, coordToAddressPath, coordParams(coord), &body); err != nil {
		return nil, err
	}
	if len(body.Documents) == 0 {
		return nil, errors.Wrapf(service.ErrNoResults, "no address at %v,%v", coord.Lat, coord.Lng)
	}

	resolved := body.Documents[0].resolved()
	resolved.Coordinate = coord

	return &resolved, nil
}

// RegionOf returns region_2depth_name of the first region covering the coordinate.
func (c *Client) RegionOf(ctx context.Context, coord entity.Coordinate) (string, error) {
	var body struct {
		Documents []struct {
			RegionType       string `json:"region_type"`
			Region2DepthName string `json:"region_2depth_name"`
		} `json:"documents"`
	}
	if err := c.getLocal(ctx, coordToRegionPath, coordParams(coord), &body); err != nil {
		return "", err
	}

	for _, doc := range body.Documents {
		if doc.Region2DepthName != "" {
			return doc.Region2DepthName, nil
		}
	}

	return "", errors.Wrapf(service.ErrNoResults, "no region at %v,%v", coord.Lat, coord.Lng)
}

// SearchKeyword runs a keyword search centred on the query point, nearest first.
func (c *Client) SearchKeyword(ctx context.Context, query service.PlacesQuery) ([]entity.Lesson, error) {
	params := coordParams(query.Center)
	params.Set("query", query.Keyword)
	params.Set("sort", "distance")
	params.Set("size", strconv.Itoa(keywordPageSize))
	if query.RadiusMeters > 0 {
		params.Set("radius", strconv.Itoa(min(query.RadiusMeters, maxRadiusMeters)))
	}

	var body struct {
		Documents []struct {
			ID              string `json:"id"`
			PlaceName       string `json:"place_name"`
			CategoryName    string `json:"category_name"`
			Phone           string `json:"phone"`
			AddressName     string `json:"address_name"`
			RoadAddressName string `json:"road_address_name"`
			X               string `json:"x"`
			Y               string `json:"y"`
			PlaceURL        string `json:"place_url"`
		} `json:"documents"`
	}
	if err := c.getLocal(ctx, searchKeywordPath, params, &body); err != nil {
		return nil, err
	}

	lessons := make([]entity.Lesson, 0, len(body.Documents))
	for _, doc := range body.Documents {
		if doc.ID == "" {
			continue
		}
		lessons = append(lessons, entity.Lesson{
			ID:              entity.StringLessonID(doc.ID),
			PlaceName:       doc.PlaceName,
			CategoryName:    doc.CategoryName,
			Phone:           doc.Phone,
			AddressName:     doc.AddressName,
			RoadAddressName: doc.RoadAddressName,
			X:               doc.X,
			Y:               doc.Y,
			PlaceURL:        doc.PlaceURL,
		})
	}

	return lessons, nil
}

// FetchProfile reads the Kakao account behind a user access token.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*entity.SocialProfile, error) {
	var body struct {
		ID         int64 `json:"id"`
		Properties struct {
			Nickname string `json:"nickname"`
		} `json:"properties"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := c.get(ctx, c.userBaseURL+userProfilePath, nil, "Bearer "+accessToken, &body); err != nil {
		return nil, err
	}
	if body.ID == 0 {
		return nil, errors.New("kakao profile response has no id")
	}

	nickname := body.KakaoAccount.Profile.Nickname
	if nickname == "" {
		nickname = body.Properties.Nickname
	}

	return &entity.SocialProfile{
		ID:       strconv.FormatInt(body.ID, 10),
		Nickname: nickname,
		Email:    body.KakaoAccount.Email,
	}, nil
}

// GetProvider returns the social login provider type.
func (c *Client) GetProvider() entity.ProviderType {
	return entity.ProviderTypeKakao
}

func coordParams(coord entity.Coordinate) url.Values {
	return url.Values{
		"x": {strconv.FormatFloat(coord.Lng, 'f', -1, 64)},
		"y": {strconv.FormatFloat(coord.Lat, 'f', -1, 64)},
	}
}

func (c *Client) getLocal(ctx context.Context, path string, params url.Values, out any) error {
	if c.restAPIKey == "" {
		return errors.Wrap(service.ErrUnavailable, ErrMissingAPIKey.Error())
	}

	return c.get(ctx, c.localBaseURL+path, params, "KakaoAK "+c.restAPIKey, out)
}

// get performs the request and decodes a 200 response into out. Transport
// failures, rate limiting and server errors wrap service.ErrUnavailable; other
// statuses are returned as plain errors.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, authorization string, out any) error {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create kakao request")
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	log := deliverycontext.GetLoggerOrDefault(ctx, c.logger)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Kakao request failed", slog.String("path", req.URL.Path), slog.Any("error", err))

		return errors.Wrapf(service.ErrUnavailable, "kakao request %s: %v", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyMaxSize))
		log.Warn("Kakao request rejected",
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return errors.Wrapf(service.ErrUnavailable, "kakao %s status %d", req.URL.Path, resp.StatusCode)
		}

		return errors.Errorf("kakao %s status %d: %s", req.URL.Path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(service.ErrUnavailable, "decode kakao %s response: %v", req.URL.Path, err)
	}

	return nil
}
