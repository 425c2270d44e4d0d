package util

import "errors"

var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrLectureNotFound      = errors.New("lecture not found in curriculum")
	ErrDirectoryUnavailable = errors.New("course directory unavailable")
	ErrAlreadyWishlisted    = errors.New("course already in wishlist")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)
