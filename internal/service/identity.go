package service

import (
	"context" // Request scoping
	"errors"  // Error inspection
	"strings" // Normalisation

	"storefront/internal/domain" // Importing domain models

	"github.com/go-playground/validator/v10" // Email syntax check
	"github.com/sirupsen/logrus"             // Structured logging
	"golang.org/x/crypto/bcrypt"             // Password hashing
	"gorm.io/gorm"                           // GORM ORM library
)

// validate is safe for concurrent use
var validate = validator.New()

// IdentityResolver maps emails to users and owns registration and login
type IdentityResolver struct {
	db *gorm.DB
}

func NewIdentityResolver(db *gorm.DB) *IdentityResolver {
	return &IdentityResolver{db: db}
}

// Registration is the input of Register
type Registration struct {
	Name     string
	Mobile   string
	Email    string
	Password string
}

// NormalizeEmail is the lookup form of an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidPassword checks the password fits bcrypt's 72 byte input
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72
}

// Resolve returns the id of the user with this email
func (r *IdentityResolver) Resolve(ctx context.Context, email string) (uint, error) {
	u, err := r.LookupEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// LookupEmail loads the user with this email
func (r *IdentityResolver) LookupEmail(ctx context.Context, email string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "Email is required")
	}
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "User not found")
		}
		return nil, domain.StorageError("Failed to fetch user", err)
	}
	return &user, nil
}

// Lookup loads a user by id
func (r *IdentityResolver) Lookup(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "User not found")
		}
		return nil, domain.StorageError("Failed to fetch user", err)
	}
	return &user, nil
}

// Register creates a user with a bcrypt password hash
func (r *IdentityResolver) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	name := strings.TrimSpace(reg.Name)
	mobile := strings.TrimSpace(reg.Mobile)
	email := NormalizeEmail(reg.Email)
	if name == "" || mobile == "" || email == "" || reg.Password == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "All fields required")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewError(domain.KindInvalidInput, "Invalid email address")
	}
	if !isValidPassword(reg.Password) {
		return nil, domain.NewError(domain.KindInvalidInput, "Password must be 8-72 characters")
	}
	// Reject known duplicates before paying for the hash
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, domain.StorageError("Failed to check email", err)
	}
	if count > 0 {
		return nil, domain.NewError(domain.KindDuplicateEmail, "Email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.StorageError("Failed to hash password", err)
	}
	user := domain.User{Name: name, Mobile: mobile, Email: email, Password: string(hash)}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent registration can still win the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewError(domain.KindDuplicateEmail, "Email already registered")
		}
		return nil, domain.StorageError("Failed to create user", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID, // New user ID
		"email":   email,   // Registered email
	}).Info("User registered")
	return &user, nil
}

// Authenticate checks a password against the stored hash
func (r *IdentityResolver) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := r.LookupEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.NewError(domain.KindInvalidCredential, "Invalid password")
	}
	return user, nil
}

// PromoteAdmins sets the admin flag on the users with these emails
func (r *IdentityResolver) PromoteAdmins(ctx context.Context, emails []string) (int64, error) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = NormalizeEmail(e); e != "" {
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("email IN ?", normalized).Update("is_admin", true)
	if res.Error != nil {
		return 0, domain.StorageError("Failed to promote admins", res.Error)
	}
	return res.RowsAffected, nil
}
