package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ecomstore/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

type userRecord struct {
	user         models.User
	passwordHash []byte
}

type imageBlob struct {
	productID int64
	data      []byte
}

// Store holds the mock backend's state. All methods are safe for
// concurrent use and return copies.
type Store struct {
	mu sync.Mutex

	users      map[int64]*userRecord
	emails     map[string]int64
	categories map[int64]models.Category
	products   map[int64]*models.Product
	blobs      map[string]imageBlob
	carts      map[int64]*models.Cart
	orders     map[int64]*models.Order

	nextUser, nextCategory, nextProduct, nextImage, nextCart, nextItem, nextOrder int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*userRecord),
		emails:     make(map[string]int64),
		categories: make(map[int64]models.Category),
		products:   make(map[int64]*models.Product),
		blobs:      make(map[string]imageBlob),
		carts:      make(map[int64]*models.Cart),
		orders:     make(map[int64]*models.Order),
		now:        time.Now,
	}
}

func (s *Store) CreateUser(name, email, password string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.emails[key]; ok {
		return models.User{}, errDuplicate
	}
	if role == "" {
		role = models.RoleCustomer
	}
	s.nextUser++
	u := models.User{ID: s.nextUser, Name: name, Email: email, Role: role}
	s.users[u.ID] = &userRecord{user: u, passwordHash: hash}
	s.emails[key] = u.ID
	return u, nil
}

func (s *Store) Authenticate(email, password string) (models.User, bool) {
	s.mu.Lock()
	id, ok := s.emails[strings.ToLower(email)]
	var rec *userRecord
	if ok {
		rec = s.users[id]
	}
	s.mu.Unlock()

	if rec == nil {
		return models.User{}, false
	}
	if bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		return models.User{}, false
	}
	return rec.user, true
}

func (s *Store) User(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return models.User{}, false
	}
	return rec.user, true
}

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return errNotFound
	}
	delete(s.emails, strings.ToLower(rec.user.Email))
	delete(s.users, id)
	delete(s.carts, id)
	return nil
}

func (s *Store) CreateCategory(name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return models.Category{}, errDuplicate
		}
	}
	s.nextCategory++
	c := models.Category{ID: s.nextCategory, Name: name}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(id int64, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return models.Category{}, errNotFound
	}
	c := models.Category{ID: id, Name: name}
	s.categories[id] = c
	for _, p := range s.products {
		if p.Category != nil && p.Category.ID == id {
			cc := c
			p.Category = &cc
		}
	}
	return c, nil
}

func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return errNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) Category(id int64) (models.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	return c, ok
}

func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) applyRequest(p *models.Product, req models.ProductRequest) error {
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.StockQuantity = req.StockQuantity
	p.Brand = req.Brand
	p.Model = req.Model
	p.SKU = req.SKU
	p.Specifications = req.Specifications
	p.Weight = req.Weight
	p.Dimensions = req.Dimensions
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.Category = nil
	if req.CategoryID != 0 {
		c, ok := s.categories[req.CategoryID]
		if !ok {
			return errNotFound
		}
		p.Category = &c
	}
	p.UpdatedAt = models.NewTimestamp(s.now())
	return nil
}

func (s *Store) CreateProduct(req models.ProductRequest) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Product{IsActive: true, Images: []models.ProductImage{}}
	if err := s.applyRequest(p, req); err != nil {
		return models.Product{}, err
	}
	s.nextProduct++
	p.ID = s.nextProduct
	p.CreatedAt = models.NewTimestamp(s.now())
	s.products[p.ID] = p
	return copyProduct(p), nil
}

func (s *Store) UpdateProduct(id int64, req models.ProductRequest) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, errNotFound
	}
	if err := s.applyRequest(p, req); err != nil {
		return models.Product{}, err
	}
	return copyProduct(p), nil
}

func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return errNotFound
	}
	for _, img := range p.Images {
		delete(s.blobs, img.FileName)
	}
	delete(s.products, id)
	return nil
}

// SetStock is a test helper.
func (s *Store) SetStock(id int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.StockQuantity = qty
	}
}

func (s *Store) Product(id int64) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, false
	}
	return copyProduct(p), true
}

func (s *Store) Products(match func(models.Product) bool) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if match == nil || match(*p) {
			out = append(out, copyProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) AddImage(productID int64, img models.ProductImage, data []byte, primary bool) (models.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return models.ProductImage{}, errNotFound
	}
	s.nextImage++
	img.ID = s.nextImage
	img.DisplayOrder = len(p.Images)
	img.UploadedAt = models.NewTimestamp(s.now())
	if primary || len(p.Images) == 0 {
		for i := range p.Images {
			p.Images[i].IsPrimary = false
		}
		img.IsPrimary = true
	}
	p.Images = append(p.Images, img)
	s.blobs[img.FileName] = imageBlob{productID: productID, data: data}
	refreshPrimaryURL(p)
	return img, nil
}

func (s *Store) DeleteImage(imageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		for i, img := range p.Images {
			if img.ID != imageID {
				continue
			}
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			delete(s.blobs, img.FileName)
			if img.IsPrimary && len(p.Images) > 0 {
				p.Images[0].IsPrimary = true
			}
			refreshPrimaryURL(p)
			return nil
		}
	}
	return errNotFound
}

func (s *Store) SetPrimaryImage(productID, imageID int64) (models.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return models.ProductImage{}, errNotFound
	}
	idx := -1
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			idx = i
		}
	}
	if idx < 0 {
		return models.ProductImage{}, errNotFound
	}
	for i := range p.Images {
		p.Images[i].IsPrimary = i == idx
	}
	refreshPrimaryURL(p)
	return p.Images[idx], nil
}

func (s *Store) ImageData(productID int64, fileName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[fileName]
	if !ok || b.productID != productID {
		return nil, false
	}
	return b.data, true
}

func refreshPrimaryURL(p *models.Product) {
	p.PrimaryImageURL = ""
	for _, img := range p.Images {
		if img.IsPrimary {
			p.PrimaryImageURL = img.ImageURL
		}
	}
}

// Cart returns errNotFound until the user's first addition.
func (s *Store) Cart(userID int64) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return models.Cart{}, errNotFound
	}
	return copyCart(c), nil
}

func (s *Store) AddToCart(userID, productID int64, quantity int) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return models.Cart{}, errNotFound
	}
	c, ok := s.carts[userID]
	if !ok {
		s.nextCart++
		c = &models.Cart{ID: s.nextCart, Items: []models.CartItem{}}
		s.carts[userID] = c
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].Product = copyProduct(p)
			merged = true
		}
	}
	if !merged {
		s.nextItem++
		c.Items = append(c.Items, models.CartItem{ID: s.nextItem, Product: copyProduct(p), Quantity: quantity})
	}
	recomputeCart(c)
	return copyCart(c), nil
}

func (s *Store) RemoveCartItem(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		for i, item := range c.Items {
			if item.ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				recomputeCart(c)
				return nil
			}
		}
	}
	return errNotFound
}

// CartItemOwner returns the user whose cart holds itemID.
func (s *Store) CartItemOwner(itemID int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, c := range s.carts {
		for _, item := range c.Items {
			if item.ID == itemID {
				return userID, true
			}
		}
	}
	return 0, false
}

func (s *Store) ClearCart(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		c.Items = []models.CartItem{}
		c.TotalAmount = decimal.Zero
	}
}

func recomputeCart(c *models.Cart) {
	total := decimal.Zero
	for i := range c.Items {
		item := &c.Items[i]
		item.UnitPrice = item.Product.Price
		item.Subtotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.Subtotal)
	}
	c.TotalAmount = total
}

// PlaceOrder prices every line from the catalog; the client's total is ignored.
func (s *Store) PlaceOrder(req models.OrderRequest) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[req.UserID]
	if !ok {
		return models.Order{}, errNotFound
	}

	var items []models.OrderItem
	total := decimal.Zero
	for _, line := range req.Items {
		p, ok := s.products[line.ProductID]
		if !ok {
			return models.Order{}, errNotFound
		}
		price := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			ID:       int64(len(items) + 1),
			Product:  copyProduct(p),
			Quantity: line.Quantity,
			Price:    price,
		})
		total = total.Add(price)
	}

	s.nextOrder++
	addr := req.ShippingAddress
	user := rec.user
	o := &models.Order{
		ID:              s.nextOrder,
		TotalAmount:     total,
		OrderedAt:       models.NewTimestamp(s.now()),
		OrderStatus:     models.OrderStatusPending,
		Items:           items,
		ShippingAddress: &addr,
		PaymentMethod:   req.PaymentMethod,
		User:            &user,
	}
	s.orders[o.ID] = o
	return copyOrder(o), nil
}

func (s *Store) Order(id int64) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, false
	}
	return copyOrder(o), true
}

func (s *Store) Orders(userID int64) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if userID == 0 || (o.User != nil && o.User.ID == userID) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) UpdateOrderStatus(id int64, status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, errNotFound
	}
	o.OrderStatus = status
	return copyOrder(o), nil
}

func copyProduct(p *models.Product) models.Product {
	out := *p
	out.Images = append([]models.ProductImage{}, p.Images...)
	if p.Category != nil {
		c := *p.Category
		out.Category = &c
	}
	return out
}

func copyCart(c *models.Cart) models.Cart {
	out := *c
	out.Items = append([]models.CartItem{}, c.Items...)
	return out
}

func copyOrder(o *models.Order) models.Order {
	out := *o
	out.Items = append([]models.OrderItem{}, o.Items...)
	return out
}
