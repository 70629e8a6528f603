package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/config"
	"github.com/CDdesenvolvimentoweb/cestas-publicas-web/models/basket"

	"gorm.io/gorm"
)

var (
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrInvalidToken      = errors.New("invalid access token")
	ErrTokenExpired      = errors.New("access token expired")
)

// IssueAccessToken generates a new access token for a quotation and revokes
// any token issued before it. The token expires at the quotation due date.
func IssueAccessToken(db *gorm.DB, quotationID uint) (string, error) {
	var quotation basket.Quotation
	if err := db.First(&quotation, quotationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrQuotationNotFound
		}
		return "", err
	}

	// 32 random bytes, hex encoded
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&basket.AccessToken{}).
			Where("quotation_id = ? AND revoked_at IS NULL", quotation.ID).
			Update("revoked_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&basket.AccessToken{
			QuotationID: quotation.ID,
			Token:       token,
			ExpiresAt:   quotation.DueDate,
		}).Error
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ValidateAccessToken resolves a token to its quotation. Expiry is checked
// against the token itself, not against the deadline monitor having run.
func ValidateAccessToken(db *gorm.DB, token string) (*basket.Quotation, error) {
	var access basket.AccessToken
	if err := db.Where("token = ? AND revoked_at IS NULL", token).First(&access).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if time.Now().After(access.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	var quotation basket.Quotation
	if err := db.First(&quotation, access.QuotationID).Error; err != nil {
		return nil, err
	}

	return &quotation, nil
}

// MarkTokenUsed stamps the first submission time on a token. Tokens are not
// consumed by submission, resubmission before the due date stays allowed.
func MarkTokenUsed(db *gorm.DB, token string) error {
	return db.Model(&basket.AccessToken{}).
		Where("token = ? AND used_at IS NULL", token).
		Update("used_at", time.Now()).Error
}

// PortalURL builds the supplier portal link embedded in notifications
func PortalURL(token string) string {
	return strings.TrimRight(config.AppConfig.PortalBaseURL, "/") + "/" + token
}
