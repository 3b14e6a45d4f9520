package product

// Service provides read access to the catalog.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Product, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListBySupplier(supplierID int) ([]Product, error) {
	return s.repo.ListBySupplier(supplierID)
}
