package products

type ProductRepo interface {
	Upsert(product *Product) error
	Get(id string) (*Product, error)
	Delete(id string) error
	List(filter Filter) ([]*Product, error)
}
