package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrQuestionNotFound   = errors.New("QUESTION_NOT_FOUND")
	ErrReportNotFound     = errors.New("REPORT_NOT_FOUND")
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")
	ErrUsernameTaken      = errors.New("USERNAME_TAKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrGenerationFailed   = errors.New("GENERATION_FAILED")
	ErrScoringFailed      = errors.New("SCORING_FAILED")
)
