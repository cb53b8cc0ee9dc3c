// Package registry fetches address points from the Slovenian INSPIRE address
// registry (WFS 2.0, GML 3.2) and maps them into canonical AddressPoints.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/slhn-import/internal/metrics"
)

// NationalCRS is the CRS URN the registry expects for bbox coordinates
const NationalCRS = "urn:ogc:def:crs:EPSG::3794"

// Config configures the registry client
type Config struct {
	BaseURL         string
	TypeName        string
	OutputFormat    string
	PageSize        int
	Timeout         time.Duration
	RatePerSecond   float64
	ExcludeSubunits bool
}

// DefaultConfig returns the production registry settings
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://storitve.eprostor.gov.si/ows-ins-wfs/ows",
		TypeName:        "ad:Address",
		OutputFormat:    "GML32",
		PageSize:        1000,
		Timeout:         30 * time.Second,
		RatePerSecond:   2,
		ExcludeSubunits: true,
	}
}

// Client issues paginated GetFeature requests against the registry
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a registry client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "GML32"
	}
	if cfg.TypeName == "" {
		cfg.TypeName = "ad:Address"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// PageSize returns the configured page size
func (c *Client) PageSize() int {
	return c.cfg.PageSize
}

// FetchAddressesInBounds fetches every address inside bbox (EPSG:3794).
// Pages are requested one after another while the previous page came back
// full. A failure on the first page returns the error alone; a failure on a
// later page returns the records gathered so far together with an error
// wrapping ErrPartialResult.
func (c *Client) FetchAddressesInBounds(ctx context.Context, bbox orb.Bound) ([]RawRecord, error) {
	start := time.Now()
	defer func() { metrics.RegistryFetchDuration.Observe(time.Since(start).Seconds()) }()

	var all []RawRecord
	for page := 0; ; page++ {
		records, returned, err := c.fetchPage(ctx, bbox, page*c.cfg.PageSize)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			c.logger.Warn("registry page failed, returning partial result",
				zap.Int("page", page+1),
				zap.Int("records", len(all)),
				zap.Error(err))
			return all, fmt.Errorf("%w after %d pages: %w", ErrPartialResult, page, err)
		}

		all = append(all, records...)
		c.logger.Debug("registry page fetched",
			zap.Int("page", page+1),
			zap.Int("returned", returned),
			zap.Int("kept", len(records)))

		if returned < c.cfg.PageSize {
			break
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, bbox orb.Bound, startIndex int) ([]RawRecord, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RegistryRequests.WithLabelValues("network_error").Inc()
		return nil, 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(bbox, startIndex), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/gml+xml, text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RegistryRequests.WithLabelValues("network_error").Inc()
		return nil, 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		metrics.RegistryRequests.WithLabelValues("network_error").Inc()
		return nil, 0, fmt.Errorf("%w: unexpected status %s", ErrNetwork, resp.Status)
	}

	raw, err := decodeFeatureCollection(resp.Body)
	if err != nil {
		metrics.RegistryRequests.WithLabelValues("format_error").Inc()
		return nil, 0, err
	}
	metrics.RegistryRequests.WithLabelValues("ok").Inc()
	metrics.RegistryRecords.Add(float64(len(raw)))

	kept := raw[:0]
	for _, r := range raw {
		if r.Subunit {
			continue
		}
		kept = append(kept, r)
	}

	return kept, len(raw), nil
}

func (c *Client) pageURL(bbox orb.Bound, startIndex int) string {
	q := url.Values{}
	q.Set("service", "WFS")
	q.Set("version", "2.0.0")
	q.Set("request", "GetFeature")
	q.Set("typeNames", c.cfg.TypeName)
	q.Set("outputFormat", c.cfg.OutputFormat)
	q.Set("count", strconv.Itoa(c.cfg.PageSize))
	q.Set("startIndex", strconv.Itoa(startIndex))

	if c.cfg.ExcludeSubunits {
		// BBOX and FILTER are mutually exclusive in WFS 2.0, so the bbox
		// travels inside the filter.
		q.Set("FILTER", subunitExclusionFilter(bbox))
	} else {
		q.Set("bbox", bboxParam(bbox))
	}

	return c.cfg.BaseURL + "?" + q.Encode()
}

func bboxParam(b orb.Bound) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		formatCoord(b.Min[0]), formatCoord(b.Min[1]),
		formatCoord(b.Max[0]), formatCoord(b.Max[1]),
		NationalCRS)
}

func subunitExclusionFilter(b orb.Bound) string {
	return `<fes:Filter xmlns:fes="http://www.opengis.net/fes/2.0" xmlns:gml="http://www.opengis.net/gml/3.2" xmlns:ad="http://inspire.ec.europa.eu/schemas/ad/4.0">` +
		`<fes:And>` +
		`<fes:BBOX><fes:ValueReference>ad:position/ad:GeographicPosition/ad:geometry</fes:ValueReference>` +
		`<gml:Envelope srsName="` + NationalCRS + `">` +
		`<gml:lowerCorner>` + formatCoord(b.Min[0]) + " " + formatCoord(b.Min[1]) + `</gml:lowerCorner>` +
		`<gml:upperCorner>` + formatCoord(b.Max[0]) + " " + formatCoord(b.Max[1]) + `</gml:upperCorner>` +
		`</gml:Envelope></fes:BBOX>` +
		`<fes:Or>` +
		`<fes:PropertyIsNull><fes:ValueReference>ad:parentAddress</fes:ValueReference></fes:PropertyIsNull>` +
		`<fes:PropertyIsNil><fes:ValueReference>ad:parentAddress</fes:ValueReference></fes:PropertyIsNil>` +
		`</fes:Or>` +
		`</fes:And></fes:Filter>`
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
