package fakeproductrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-session/internal/errors"
	"github.com/jrsteele09/go-admin-session/products"
)

var _ products.ProductRepo = (*FakeProductRepo)(nil)

type FakeProductRepo struct {
	products map[string]*products.Product
	lock     sync.RWMutex
}

func NewFakeProductRepo() products.ProductRepo {
	return &FakeProductRepo{
		products: make(map[string]*products.Product),
	}
}

func (pr *FakeProductRepo) Upsert(product *products.Product) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	pr.products[product.ID] = product.Clone()
	return nil
}

func (pr *FakeProductRepo) Get(id string) (*products.Product, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	p, ok := pr.products[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return p.Clone(), nil
}

func (pr *FakeProductRepo) Delete(id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if _, ok := pr.products[id]; !ok {
		return errors.ErrNotFound
	}
	delete(pr.products, id)
	return nil
}

func (pr *FakeProductRepo) List(filter products.Filter) ([]*products.Product, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	list := make([]*products.Product, 0, len(pr.products))
	for _, p := range pr.products {
		if filter.Match(p) {
			list = append(list, p.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list, nil
}
