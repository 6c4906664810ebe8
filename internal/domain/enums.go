package domain

import "strings"

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

func ParseSize(s string) (Size, error) {
	v := Size(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", NewValidationError("size", "Invalid size %q: must be one of small, medium, large", s)
	}
	return v, nil
}

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformShopee    Platform = "shopee"
)

var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformShopee}

func ParsePlatform(s string) (Platform, error) {
	v := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", NewValidationError("platform", "Invalid platform %q: must be one of facebook, instagram, shopee", s)
	}
	return v, nil
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformShopee:
		return true
	}
	return false
}

func (p *Platform) UnmarshalText(b []byte) error {
	v, err := ParsePlatform(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Category es opcional: el valor vacío significa "sin categoría".
type Category string

const (
	CategoryDress       Category = "dress"
	CategoryTop         Category = "top"
	CategoryBottoms     Category = "bottoms"
	CategorySkirts      Category = "skirts"
	CategoryAccessories Category = "accessories"
	CategoryHats        Category = "hats"
	CategoryOthers      Category = "others"
)

var Categories = []Category{CategoryDress, CategoryTop, CategoryBottoms, CategorySkirts, CategoryAccessories, CategoryHats, CategoryOthers}

func ParseCategory(s string) (Category, error) {
	v := Category(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", NewValidationError("category", "Invalid category %q", s)
	}
	return v, nil
}

func (c Category) Valid() bool {
	if c == "" {
		return true
	}
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
