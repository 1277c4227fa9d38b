package search

import (
	"slices"
	"sort"
	"strings"

	"ticketera/internal/shared/listing"

	"github.com/shopspring/decimal"
)

// Filter narrows results by every active field of q. Each predicate only
// removes items, so the output is the intersection of the active filters.
func Filter(results []Result, q Query) []Result {
	return listing.Filter(results,
		textPredicate(q.Text),
		typePredicate(q.Type),
		categoryPredicate(q.Category),
		locationPredicate(q.Location),
		datePredicate(q),
		pricePredicate(q.MinPrice, q.MaxPrice),
		ratingPredicate(q.MinRating),
		vehiclePredicate(q.VehicleTypes),
		amenityPredicate(q.Amenities),
	)
}

func textPredicate(text string) listing.Predicate[Result] {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return func(r Result) bool {
		return listing.ContainsFold(text, r.Title, r.Description, r.Location, r.Destination, r.Artist, r.Company)
	}
}

func typePredicate(t string) listing.Predicate[Result] {
	if t == "" || t == "all" {
		return nil
	}
	return func(r Result) bool { return string(r.Type) == t }
}

func categoryPredicate(category string) listing.Predicate[Result] {
	if category == "" {
		return nil
	}
	return func(r Result) bool { return listing.EqualOrEmpty(category, r.Category) }
}

func locationPredicate(location string) listing.Predicate[Result] {
	if strings.TrimSpace(location) == "" {
		return nil
	}
	return func(r Result) bool { return listing.ContainsFold(location, r.Location, r.Destination) }
}

// datePredicate treats date_to as inclusive of the whole day
func datePredicate(q Query) listing.Predicate[Result] {
	if q.DateFrom == nil && q.DateTo == nil {
		return nil
	}
	return func(r Result) bool {
		if q.DateFrom != nil && r.Date.Before(*q.DateFrom) {
			return false
		}
		if q.DateTo != nil && !r.Date.Before(q.DateTo.AddDate(0, 0, 1)) {
			return false
		}
		return true
	}
}

func pricePredicate(minPrice, maxPrice *float64) listing.Predicate[Result] {
	if minPrice == nil && maxPrice == nil {
		return nil
	}
	return func(r Result) bool {
		if minPrice != nil && r.Price.LessThan(decimal.NewFromFloat(*minPrice)) {
			return false
		}
		if maxPrice != nil && r.Price.GreaterThan(decimal.NewFromFloat(*maxPrice)) {
			return false
		}
		return true
	}
}

func ratingPredicate(minRating float64) listing.Predicate[Result] {
	if minRating <= 0 {
		return nil
	}
	return func(r Result) bool { return r.Rating >= minRating }
}

// vehiclePredicate keeps routes whose vehicle is in the set; events never match
func vehiclePredicate(types []string) listing.Predicate[Result] {
	if len(types) == 0 {
		return nil
	}
	return func(r Result) bool { return slices.Contains(types, r.VehicleType) }
}

// amenityPredicate requires every requested amenity
func amenityPredicate(amenities []string) listing.Predicate[Result] {
	if len(amenities) == 0 {
		return nil
	}
	return func(r Result) bool {
		for _, want := range amenities {
			if !slices.ContainsFunc(r.Amenities, func(have string) bool { return strings.EqualFold(have, want) }) {
				return false
			}
		}
		return true
	}
}

// Sort orders results in place. Ties keep their catalogue order.
func Sort(results []Result, by SortBy) {
	var less func(a, b Result) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b Result) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b Result) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b Result) bool { return a.Rating > b.Rating }
	case SortDate:
		less = func(a, b Result) bool { return a.Date.Before(b.Date) }
	case SortName:
		less = func(a, b Result) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	default:
		less = func(a, b Result) bool { return a.Featured && !b.Featured }
	}
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}

// BuildFacets collects the distinct values present in the catalogue
func BuildFacets(results []Result) Facets {
	var categories, locations, vehicles, amenities []string
	for _, r := range results {
		categories = appendUnique(categories, r.Category)
		locations = appendUnique(locations, r.Location)
		locations = appendUnique(locations, r.Destination)
		vehicles = appendUnique(vehicles, r.VehicleType)
		for _, a := range r.Amenities {
			amenities = appendUnique(amenities, a)
		}
	}
	return Facets{
		Categories:   sorted(categories),
		Locations:    sorted(locations),
		VehicleTypes: sorted(vehicles),
		Amenities:    sorted(amenities),
	}
}

func appendUnique(values []string, v string) []string {
	if v == "" || slices.Contains(values, v) {
		return values
	}
	return append(values, v)
}

func sorted(values []string) []string {
	if values == nil {
		return []string{}
	}
	slices.Sort(values)
	return values
}
