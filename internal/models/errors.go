package models

import (
	"errors"
)

var (
	ErrNoRecord               = errors.New("models: no matching record found")
	ErrInvalidCredentials     = errors.New("models: invalid credentials")
	ErrDuplicateEmail         = errors.New("models: duplicate email")
	ErrUserNotFound           = errors.New("models: user not found")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignNotActive      = errors.New("campaign does not accept donations")
	ErrDonationNotFound       = errors.New("donation not found")
	ErrInvalidAmount          = errors.New("donation amount must be positive")
	ErrDuplicatePaymentIntent = errors.New("payment intent already recorded")
	ErrBlogPostNotFound       = errors.New("blog post not found")
	ErrSubmissionNotFound     = errors.New("contact submission not found")
)
