package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"backoffice/internal/pipeline"
)

// ProductsService manages the product catalog.
type ProductsService struct {
	p *pipeline.Pipeline
}

func (s *ProductsService) List(ctx context.Context, filter ProductFilter) (ProductPage, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(filter.PageSize))
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}

	path := "/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page ProductPage
	err := s.p.Do(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

func (s *ProductsService) Create(ctx context.Context, product Product) (Product, error) {
	var created Product
	err := s.p.Do(ctx, http.MethodPost, "/products", product, &created)
	return created, err
}

func (s *ProductsService) Update(ctx context.Context, id string, product Product) (Product, error) {
	var updated Product
	err := s.p.Do(ctx, http.MethodPut, "/products/"+id, product, &updated)
	return updated, err
}

func (s *ProductsService) Delete(ctx context.Context, id string) error {
	return s.p.Do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// CategoriesService manages catalog categories.
type CategoriesService struct {
	p *pipeline.Pipeline
}

func (s *CategoriesService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.p.Do(ctx, http.MethodGet, "/categories", nil, &categories)
	return categories, err
}

func (s *CategoriesService) Create(ctx context.Context, category Category) (Category, error) {
	var created Category
	err := s.p.Do(ctx, http.MethodPost, "/categories", category, &created)
	return created, err
}

func (s *CategoriesService) Update(ctx context.Context, id string, category Category) (Category, error) {
	var updated Category
	err := s.p.Do(ctx, http.MethodPut, "/categories/"+id, category, &updated)
	return updated, err
}

func (s *CategoriesService) Delete(ctx context.Context, id string) error {
	return s.p.Do(ctx, http.MethodDelete, "/categories/"+id, nil, nil)
}

// UsersService lists customer accounts and creates collaborator accounts.
type UsersService struct {
	p *pipeline.Pipeline
}

func (s *UsersService) List(ctx context.Context) ([]User, error) {
	var users []User
	err := s.p.Do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

// CreateCollaborator provisions a back-office operator. The backend answers
// with a temporary password flow, so the new operator lands on the
// first-login challenge at their first sign-in.
func (s *UsersService) CreateCollaborator(ctx context.Context, collaborator Collaborator) error {
	return s.p.Do(ctx, http.MethodPost, "/auth/admin/collaborators", collaborator, nil)
}

// StoreService reads and updates the storefront profile.
type StoreService struct {
	p *pipeline.Pipeline
}

func (s *StoreService) Get(ctx context.Context) (StoreInfo, error) {
	var info StoreInfo
	err := s.p.Do(ctx, http.MethodGet, "/store", nil, &info)
	return info, err
}

func (s *StoreService) Update(ctx context.Context, info StoreInfo) error {
	return s.p.Do(ctx, http.MethodPut, "/store", info, nil)
}

// Overview fetches the dashboard counters.
func (s *StoreService) Overview(ctx context.Context) (Overview, error) {
	var overview Overview
	err := s.p.Do(ctx, http.MethodGet, "/store/overview", nil, &overview)
	return overview, err
}
