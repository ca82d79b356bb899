package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/db"
	"github.com/theuzairlab/WrenchEX-Backend/middleware"
	"github.com/theuzairlab/WrenchEX-Backend/models"
	"github.com/theuzairlab/WrenchEX-Backend/utils"
)

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // "buyer" (default) or "seller"

	// Seller registration only
	ShopName        string `json:"shop_name"`
	ShopDescription string `json:"shop_description"`
	ShopAddress     string `json:"shop_address"`
	City            string `json:"city"`
}

// Register creates a buyer or seller account. Seller registration also
// creates the (unapproved) shop profile in the same transaction.
func Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	var violations []string
	if input.Name == "" {
		violations = append(violations, "name is required")
	}
	if input.Email == "" {
		violations = append(violations, "email is required")
	}
	if len(input.Password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	role := models.UserRole(input.Role)
	if role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		violations = append(violations, "role must be buyer or seller")
	}
	if role == models.RoleSeller && input.ShopName == "" {
		violations = append(violations, "shop_name is required for sellers")
	}
	if len(violations) > 0 {
		return utils.Error(c, fiber.StatusBadRequest, strings.Join(violations, "; "))
	}

	var existing models.User
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		return utils.Error(c, fiber.StatusConflict, "User with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Internal(c)
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Phone:        input.Phone,
		Role:         role,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if role == models.RoleSeller {
			seller := models.Seller{
				UserID:          user.ID,
				ShopName:        input.ShopName,
				ShopDescription: input.ShopDescription,
				ShopAddress:     input.ShopAddress,
				City:            input.City,
			}
			if err := tx.Create(&seller).Error; err != nil {
				return err
			}
			user.Seller = &seller
		}
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return utils.Error(c, fiber.StatusConflict, "Shop name is already taken")
		}
		return utils.Internal(c)
	}

	return utils.Created(c, user)
}

// Login handles password authentication and issues the token pair.
func Login(c *fiber.Ctx) error {
	type loginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	var user models.User
	if db.DB.Preload("Seller").Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if user.PasswordHash == "" {
		return utils.Error(c, fiber.StatusUnauthorized, "This account signs in with Google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return issueTokens(c, &user)
}

type oauthInput struct {
	GoogleID string `json:"google_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// OAuthLogin signs in (or registers) a buyer through an already-verified
// Google identity. Token verification against the provider happens at the
// gateway; this endpoint trusts its output.
func OAuthLogin(c *fiber.Ctx) error {
	input := new(oauthInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.GoogleID == "" || input.Email == "" {
		return utils.Error(c, fiber.StatusBadRequest, "google_id and email are required")
	}

	var user models.User
	err := db.DB.Preload("Seller").Where("google_id = ?", input.GoogleID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		// Link to an existing password account with the same email, or
		// register a fresh buyer.
		err = db.DB.Preload("Seller").Where("email = ?", input.Email).First(&user).Error
		if err == gorm.ErrRecordNotFound {
			user = models.User{
				Name:       input.Name,
				Email:      input.Email,
				GoogleID:   input.GoogleID,
				Role:       models.RoleBuyer,
				IsVerified: true,
			}
			if err := db.DB.Create(&user).Error; err != nil {
				return utils.Internal(c)
			}
		} else if err != nil {
			return utils.Internal(c)
		} else {
			if err := db.DB.Model(&user).Update("google_id", input.GoogleID).Error; err != nil {
				return utils.Internal(c)
			}
		}
	} else if err != nil {
		return utils.Internal(c)
	}

	return issueTokens(c, &user)
}

func issueTokens(c *fiber.Ctx, user *models.User) error {
	var sellerID uint
	if user.Seller != nil {
		sellerID = user.Seller.ID
	}

	claims := jwt.MapClaims{
		"id":        user.ID,
		"email":     user.Email,
		"role":      string(user.Role),
		"seller_id": sellerID,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(middleware.Secret())
	if err != nil {
		return utils.Internal(c)
	}

	refreshClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(),
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString(middleware.Secret())
	if err != nil {
		return utils.Internal(c)
	}

	return utils.Success(c, fiber.Map{
		"token":        tokenString,
		"refreshToken": refreshTokenString,
		"user": fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"seller_id": sellerID,
		},
	})
}

// Me returns the current user's profile.
func Me(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.Preload("Seller").First(&user, middleware.UserID(c)).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "User not found")
	}
	return utils.Success(c, user)
}

// RequestVerification issues a fresh email verification code for the current
// user. The code and its expiry live on the user row; asking again replaces
// the outstanding code.
func RequestVerification(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.First(&user, middleware.UserID(c)).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "User not found")
	}
	if user.IsVerified {
		return utils.Error(c, fiber.StatusBadRequest, "Email is already verified")
	}

	code := utils.GenerateOTP()
	expires := time.Now().Add(15 * time.Minute)
	updates := map[string]interface{}{"otp": code, "otp_expires_at": expires}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return utils.Internal(c)
	}

	body := "<p>Hi " + user.Name + ",</p>" +
		"<p>Your WrenchEX verification code is <b>" + code + "</b>. " +
		"It expires in 15 minutes.</p>"
	utils.NotifyEmail(user.Email, "Verify your WrenchEX email", body)

	return utils.Success(c, fiber.Map{"message": "Verification code sent"})
}

// VerifyEmail checks the submitted code against the stored one and marks the
// account verified. The code is cleared either way once it matches.
func VerifyEmail(c *fiber.Ctx) error {
	type verifyInput struct {
		Code string `json:"code"`
	}

	input := new(verifyInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.Code == "" {
		return utils.Error(c, fiber.StatusBadRequest, "code is required")
	}

	var user models.User
	if err := db.DB.First(&user, middleware.UserID(c)).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "User not found")
	}
	if user.IsVerified {
		return utils.Error(c, fiber.StatusBadRequest, "Email is already verified")
	}
	if !user.OTPMatches(input.Code, time.Now()) {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired code")
	}

	updates := map[string]interface{}{"is_verified": true, "otp": "", "otp_expires_at": nil}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		return utils.Internal(c)
	}

	return utils.Success(c, fiber.Map{"message": "Email verified"})
}

// Logout doesn't actually invalidate the token as JWTs are stateless
func Logout(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"message": "Successfully logged out"})
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(c *fiber.Ctx) error {
	type refreshRequest struct {
		RefreshToken string `json:"refreshToken"`
	}

	req := new(refreshRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	token, err := jwt.Parse(req.RefreshToken, func(token *jwt.Token) (interface{}, error) {
		return middleware.Secret(), nil
	})
	if err != nil || !token.Valid {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	var user models.User
	if err := db.DB.Preload("Seller").First(&user, uint(id)).Error; err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Account no longer exists")
	}

	return issueTokens(c, &user)
}
