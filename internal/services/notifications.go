package services

import (
	"context"
	"fmt"
	"sort"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/models"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

const (
	criticalStock = 5
	warningStock  = 10
)

type Notification struct {
	ID        string   `json:"id"`
	Severity  Severity `json:"severity"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	ProductID int64    `json:"productId"`
	Product   string   `json:"productName"`
	Stock     int      `json:"stock"`
}

type NotificationSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// Classify turns stock levels into notifications, critical first and in
// product order within a severity.
func Classify(products []models.Product) []Notification {
	var out []Notification
	for _, p := range products {
		n, ok := classify(p)
		if ok {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity == SeverityCritical && out[j].Severity != SeverityCritical
	})
	return out
}

func classify(p models.Product) (Notification, bool) {
	n := Notification{ProductID: p.ID, Product: p.Name, Stock: p.StockQuantity}
	switch {
	case p.StockQuantity <= 0:
		n.ID = fmt.Sprintf("out-of-stock-%d", p.ID)
		n.Severity = SeverityCritical
		n.Title = "Out of Stock"
		n.Message = fmt.Sprintf("%s is completely out of stock", p.Name)
	case p.StockQuantity <= criticalStock:
		n.ID = fmt.Sprintf("critical-low-%d", p.ID)
		n.Severity = SeverityCritical
		n.Title = "Critical Low Stock"
		n.Message = fmt.Sprintf("%s has only %d units left", p.Name, p.StockQuantity)
	case p.StockQuantity <= warningStock:
		n.ID = fmt.Sprintf("low-stock-%d", p.ID)
		n.Severity = SeverityWarning
		n.Title = "Low Stock Warning"
		n.Message = fmt.Sprintf("%s is running low with %d units", p.Name, p.StockQuantity)
	default:
		return Notification{}, false
	}
	return n, true
}

// FilterNotifications keeps "all", "critical" or "warning" entries. Any
// other filter keeps everything.
func FilterNotifications(list []Notification, filter string) []Notification {
	if filter != string(SeverityCritical) && filter != string(SeverityWarning) {
		return list
	}
	out := []Notification{}
	for _, n := range list {
		if string(n.Severity) == filter {
			out = append(out, n)
		}
	}
	return out
}

func Summarize(list []Notification) NotificationSummary {
	sum := NotificationSummary{Total: len(list)}
	for _, n := range list {
		switch n.Severity {
		case SeverityCritical:
			sum.Critical++
		case SeverityWarning:
			sum.Warning++
		}
	}
	return sum
}

type NotificationService struct {
	api *apiclient.Client
}

func NewNotificationService(api *apiclient.Client) *NotificationService {
	return &NotificationService{api: api}
}

func (s *NotificationService) Notifications(ctx context.Context) ([]Notification, error) {
	products := []models.Product{}
	if _, err := s.api.Get(ctx, "/api/products/all", &products); err != nil {
		return nil, fmt.Errorf("failed to load products for notifications: %w", err)
	}
	return Classify(products), nil
}
