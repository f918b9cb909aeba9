package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// OpeningsQuery is one bounded discovery request: a date range, one
// time-of-day sub-range, one employee and one service.
type OpeningsQuery struct {
	LocationID string
	StartDate  string
	EndDate    string
	StartTime  string
	EndTime    string
	EmployeeID string
	ServiceID  string
}

// Opening is one slot returned by the scan endpoint, with times resolved in
// the business location.
type Opening struct {
	ServiceID   string
	ServiceName string
	Start       time.Time
	End         time.Time
	Price       float64
}

type scanService struct {
	ServiceID   string   `json:"ServiceId"`
	EmployeeIDs []string `json:"EmployeeIds"`
}

type scanRequest struct {
	LocationID   int           `json:"LocationId"`
	TenantID     int           `json:"TenantId"`
	ScanDateType int           `json:"ScanDateType"`
	StartDate    string        `json:"StartDate"`
	EndDate      string        `json:"EndDate"`
	ScanTimeType int           `json:"ScanTimeType"`
	StartTime    string        `json:"StartTime"`
	EndTime      string        `json:"EndTime"`
	ScanServices []scanService `json:"ScanServices"`
}

type rawOpening struct {
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Date          string  `json:"date"`
	ServiceID     string  `json:"serviceId"`
	ServiceName   string  `json:"serviceName"`
	EmployeePrice float64 `json:"employeePrice"`
}

type scanResponse struct {
	Data []struct {
		ServiceOpenings []rawOpening `json:"serviceOpenings"`
	} `json:"data"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseInstant reads an upstream timestamp; zone-less values are local to loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ScanOpenings issues one discovery request. The platform caps the result count.
func (c *Client) ScanOpenings(ctx context.Context, token string, q OpeningsQuery) ([]Opening, error) {
	locationID := q.LocationID
	if locationID == "" {
		locationID = c.cfg.LocationID
	}
	locNum, err := strconv.Atoi(locationID)
	if err != nil {
		return nil, fmt.Errorf("invalid location id %q: %w", locationID, err)
	}
	tenantNum, err := strconv.Atoi(c.cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant id %q: %w", c.cfg.TenantID, err)
	}

	body := scanRequest{
		LocationID:   locNum,
		TenantID:     tenantNum,
		ScanDateType: 1,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		ScanTimeType: 1,
		StartTime:    q.StartTime,
		EndTime:      q.EndTime,
		ScanServices: []scanService{{ServiceID: q.ServiceID, EmployeeIDs: []string{q.EmployeeID}}},
	}

	params := url.Values{}
	params.Set("TenantId", c.cfg.TenantID)
	params.Set("LocationId", locationID)

	var resp scanResponse
	if err := c.do(ctx, http.MethodPost, c.cfg.APIURLV2+"/scan/openings?"+params.Encode(), token, body, &resp); err != nil {
		return nil, err
	}

	var out []Opening
	for _, item := range resp.Data {
		for _, raw := range item.ServiceOpenings {
			o, err := c.parseOpening(raw)
			if err != nil {
				c.cfg.Logger.Warn("upstream: skipping opening with bad timestamp",
					zap.String("employeeID", q.EmployeeID),
					zap.String("serviceID", raw.ServiceID),
					zap.Error(err))
				continue
			}
			out = append(out, o)
		}
	}
	return out, nil
}

func (c *Client) parseOpening(raw rawOpening) (Opening, error) {
	start, err := ParseInstant(raw.StartTime, c.cfg.Location)
	if err != nil {
		return Opening{}, err
	}
	end, err := ParseInstant(raw.EndTime, c.cfg.Location)
	if err != nil {
		return Opening{}, err
	}
	return Opening{
		ServiceID:   raw.ServiceID,
		ServiceName: raw.ServiceName,
		Start:       start,
		End:         end,
		Price:       raw.EmployeePrice,
	}, nil
}
