package transport

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	// Companies
	CreateCompany(ctx context.Context, company *Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)
	SaveCompany(ctx context.Context, company *Company) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context, q CompanyListQuery) ([]Company, int64, error)
	CompanyStats(ctx context.Context, id uuid.UUID) (*CompanyStats, error)

	// Routes
	CreateRoute(ctx context.Context, route *Route) error
	GetRoute(ctx context.Context, id uuid.UUID) (*Route, error)
	SaveRoute(ctx context.Context, route *Route) error
	DeleteRoute(ctx context.Context, id uuid.UUID) error
	ListRoutes(ctx context.Context, q RouteListQuery) ([]Route, int64, error)
	ListActiveRoutes(ctx context.Context) ([]Route, error)

	// Aggregates
	ReserveSeats(ctx context.Context, routeID uuid.UUID, count int) error
	ReleaseSeats(ctx context.Context, routeID uuid.UUID, count int) error
	RecordSale(ctx context.Context, routeID uuid.UUID, amount decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCompany(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) SaveCompany(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var routes int64
		if err := tx.Model(&Route{}).Where("company_id = ?", id).Count(&routes).Error; err != nil {
			return err
		}
		if routes > 0 {
			return ErrCompanyHasRoutes
		}

		result := tx.Where("id = ?", id).Delete(&Company{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}
		return nil
	})
}

func (r *repository) ListCompanies(ctx context.Context, q CompanyListQuery) ([]Company, int64, error) {
	var (
		companies []Company
		total     int64
	)

	db := r.db.WithContext(ctx).Model(&Company{})
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(name) LIKE ? OR LOWER(contact_email) LIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginate(db).Order("name ASC").Find(&companies).Error
	return companies, total, err
}

func (r *repository) CompanyStats(ctx context.Context, id uuid.UUID) (*CompanyStats, error) {
	var row struct {
		TotalRoutes   int64
		ActiveRoutes  int64
		TotalBookings int64
		Revenue       decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&Route{}).
		Select(`COUNT(*) AS total_routes,
			COUNT(*) FILTER (WHERE status = ?) AS active_routes,
			COALESCE(SUM(total_bookings), 0) AS total_bookings,
			COALESCE(SUM(revenue), 0) AS revenue`, RouteActive).
		Where("company_id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &CompanyStats{
		CompanyID:     id,
		TotalRoutes:   row.TotalRoutes,
		ActiveRoutes:  row.ActiveRoutes,
		TotalBookings: row.TotalBookings,
		Revenue:       row.Revenue,
	}, nil
}

// CreateRoute inserts the route and bumps the company's route counter
func (r *repository) CreateRoute(ctx context.Context, route *Route) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Company").Create(route).Error; err != nil {
			return err
		}
		return tx.Model(&Company{}).Where("id = ?", route.CompanyID).
			UpdateColumn("total_routes", gorm.Expr("total_routes + 1")).Error
	})
}

func (r *repository) GetRoute(ctx context.Context, id uuid.UUID) (*Route, error) {
	var route Route
	if err := r.db.WithContext(ctx).Preload("Company").Where("id = ?", id).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &route, nil
}

func (r *repository) SaveRoute(ctx context.Context, route *Route) error {
	return r.db.WithContext(ctx).Omit("Company").Save(route).Error
}

func (r *repository) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var route Route
		if err := tx.Where("id = ?", id).First(&route).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRouteNotFound
			}
			return err
		}
		if err := tx.Delete(&route).Error; err != nil {
			return err
		}
		return tx.Model(&Company{}).Where("id = ? AND total_routes > 0", route.CompanyID).
			UpdateColumn("total_routes", gorm.Expr("total_routes - 1")).Error
	})
}

func (r *repository) ListRoutes(ctx context.Context, q RouteListQuery) ([]Route, int64, error) {
	var (
		routes []Route
		total  int64
	)

	db := r.db.WithContext(ctx).Model(&Route{})
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(origin) LIKE ? OR LOWER(destination) LIKE ? OR LOWER(vehicle_class) LIKE ?",
			pattern, pattern, pattern)
	}
	if q.Type != "" && q.Type != "all" {
		db = db.Where("vehicle_type = ?", q.Type)
	}
	if q.Status != "" && q.Status != "all" {
		db = db.Where("status = ?", q.Status)
	}
	if q.CompanyID != "" {
		db = db.Where("company_id = ?", q.CompanyID)
	}
	if q.Origin != "" {
		db = db.Where("LOWER(origin) = ?", strings.ToLower(q.Origin))
	}
	if q.Destination != "" {
		db = db.Where("LOWER(destination) = ?", strings.ToLower(q.Destination))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginate(db.Preload("Company")).Order("departure_time ASC").Find(&routes).Error
	return routes, total, err
}

func (r *repository) ListActiveRoutes(ctx context.Context) ([]Route, error) {
	var routes []Route
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("status = ?", RouteActive).
		Order("departure_time ASC").
		Find(&routes).Error
	return routes, err
}

// ReserveSeats decrements available seats only when enough remain
func (r *repository) ReserveSeats(ctx context.Context, routeID uuid.UUID, count int) error {
	result := r.db.WithContext(ctx).Model(&Route{}).
		Where("id = ? AND available_seats >= ?", routeID, count).
		UpdateColumn("available_seats", gorm.Expr("available_seats - ?", count))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotEnoughSeats
	}
	return nil
}

func (r *repository) ReleaseSeats(ctx context.Context, routeID uuid.UUID, count int) error {
	return r.db.WithContext(ctx).Model(&Route{}).
		Where("id = ?", routeID).
		UpdateColumn("available_seats", gorm.Expr("LEAST(available_seats + ?, total_seats)", count)).Error
}

func (r *repository) RecordSale(ctx context.Context, routeID uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var route Route
		if err := tx.Select("id", "company_id").Where("id = ?", routeID).First(&route).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRouteNotFound
			}
			return err
		}
		if err := tx.Model(&Route{}).Where("id = ?", routeID).UpdateColumns(map[string]interface{}{
			"total_bookings": gorm.Expr("total_bookings + 1"),
			"revenue":        gorm.Expr("revenue + ?", amount),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&Company{}).Where("id = ?", route.CompanyID).
			UpdateColumn("total_bookings", gorm.Expr("total_bookings + 1")).Error
	})
}
