package clients

import "time"

type Client struct {
	ID             int64
	Name           string
	Phone          string
	Email          string
	Document       string
	Address        string
	PortalPassword *string
	CreatedAt      time.Time
}
