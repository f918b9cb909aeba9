package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Employee is the roster record as the platform returns it.
type Employee struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	NickName    string `json:"nickName"`
	ObjectState int    `json:"objectState"`
}

type employeesResponse struct {
	Data []Employee `json:"data"`
}

// ListEmployees returns every employee at the configured location, bookable or not.
func (c *Client) ListEmployees(ctx context.Context, token string) ([]Employee, error) {
	q := url.Values{}
	q.Set("tenantid", c.cfg.TenantID)
	q.Set("locationid", c.cfg.LocationID)
	q.Set("ItemsPerPage", "100")

	var resp employeesResponse
	if err := c.do(ctx, http.MethodGet, c.cfg.APIURL+"/employees?"+q.Encode(), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return resp.Data, nil
}
