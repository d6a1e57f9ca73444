package domain

import "time"

// Role separates teachers from platform administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// EducationLevel is the school level a teacher works at.
type EducationLevel string

const (
	EducationPrimary    EducationLevel = "PRIMARY"
	EducationSecondary  EducationLevel = "SECONDARY"
	EducationHighSchool EducationLevel = "HIGH_SCHOOL"
)

// Language is a storefront locale.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// DefaultLanguage matches the storefront default locale.
const DefaultLanguage = LanguageArabic

// User is a registered teacher or an administrator.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	EducationLevel    EducationLevel
	Subject           string
	Phone             string
	City              string
	Institution       string
	PreferredLanguage Language
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// TeacherSummary is a teacher row with the number of orders placed.
type TeacherSummary struct {
	User
	OrderCount int
}
