package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theuzairlab/WrenchEX-Backend/models"
)

type fixture struct {
	db          *gorm.DB
	buyer       models.User
	sellerUser  models.User
	seller      models.Seller
	product     models.Product
	appointment models.Appointment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dbh, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbh.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.SellerChatSettings{},
		&models.Product{},
		&models.ProductChat{},
		&models.ProductMessage{},
		&models.Appointment{},
		&models.AppointmentMessage{},
	))

	f := &fixture{db: dbh}
	f.buyer = models.User{Name: "Ava", Email: "ava@example.com", Role: models.RoleBuyer}
	require.NoError(t, dbh.Create(&f.buyer).Error)
	f.sellerUser = models.User{Name: "Marco", Email: "marco@example.com", Role: models.RoleSeller}
	require.NoError(t, dbh.Create(&f.sellerUser).Error)
	f.seller = models.Seller{UserID: f.sellerUser.ID, ShopName: "Marco's Garage", IsApproved: true}
	require.NoError(t, dbh.Create(&f.seller).Error)
	f.product = models.Product{SellerID: f.seller.ID, Title: "Brake pads", Price: 80, IsActive: true}
	require.NoError(t, dbh.Create(&f.product).Error)
	f.appointment = models.Appointment{
		Number:    "WRX-TEST-0001",
		BuyerID:   f.buyer.ID,
		SellerID:  f.seller.ID,
		ServiceID: 1,
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(25 * time.Hour),
		Status:    models.StatusConfirmed,
	}
	require.NoError(t, dbh.Create(&f.appointment).Error)
	return f
}

func TestOpenThreadFindsOrCreates(t *testing.T) {
	f := newFixture(t)

	first, err := OpenThread(f.db, f.product.ID, f.buyer.ID)
	require.NoError(t, err)
	require.Equal(t, f.seller.ID, first.SellerID)

	again, err := OpenThread(f.db, f.product.ID, f.buyer.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.ProductChat{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestOpenThreadRejectsOwnProduct(t *testing.T) {
	f := newFixture(t)
	_, err := OpenThread(f.db, f.product.ID, f.sellerUser.ID)
	require.ErrorIs(t, err, ErrOwnProduct)
}

func TestSendMessageParticipantsOnly(t *testing.T) {
	f := newFixture(t)
	thread, err := OpenThread(f.db, f.product.ID, f.buyer.ID)
	require.NoError(t, err)

	_, err = SendMessage(f.db, thread.ID, f.buyer.ID, models.MessageText, "still available?", nil)
	require.NoError(t, err)
	_, err = SendMessage(f.db, thread.ID, f.sellerUser.ID, models.MessageText, "yes, two sets left", nil)
	require.NoError(t, err)

	outsider := models.User{Name: "Noor", Email: "noor@example.com", Role: models.RoleBuyer}
	require.NoError(t, f.db.Create(&outsider).Error)
	_, err = SendMessage(f.db, thread.ID, outsider.ID, models.MessageText, "hello", nil)
	require.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	thread, err := OpenThread(f.db, f.product.ID, f.buyer.ID)
	require.NoError(t, err)

	_, err = SendMessage(f.db, thread.ID, f.buyer.ID, "carrier-pigeon", "hi", nil)
	require.ErrorIs(t, err, ErrInvalidMessage)

	_, err = SendMessage(f.db, thread.ID, f.buyer.ID, models.MessageText, "", nil)
	require.ErrorIs(t, err, ErrInvalidMessage)

	// Price offers need a positive amount.
	_, err = SendMessage(f.db, thread.ID, f.buyer.ID, models.MessagePriceOffer, "", nil)
	require.ErrorIs(t, err, ErrInvalidMessage)
	zero := 0.0
	_, err = SendMessage(f.db, thread.ID, f.buyer.ID, models.MessagePriceOffer, "", &zero)
	require.ErrorIs(t, err, ErrInvalidMessage)

	offer := 65.0
	msg, err := SendMessage(f.db, thread.ID, f.buyer.ID, models.MessagePriceOffer, "would you take 65?", &offer)
	require.NoError(t, err)
	require.NotNil(t, msg.OfferPrice)
	require.Equal(t, offer, *msg.OfferPrice)
}

func TestMarkReadFlipsCounterpartOnly(t *testing.T) {
	f := newFixture(t)
	thread, err := OpenThread(f.db, f.product.ID, f.buyer.ID)
	require.NoError(t, err)

	_, err = SendMessage(f.db, thread.ID, f.sellerUser.ID, models.MessageText, "one", nil)
	require.NoError(t, err)
	_, err = SendMessage(f.db, thread.ID, f.sellerUser.ID, models.MessageText, "two", nil)
	require.NoError(t, err)
	_, err = SendMessage(f.db, thread.ID, f.buyer.ID, models.MessageText, "three", nil)
	require.NoError(t, err)

	require.NoError(t, MarkRead(f.db, thread.ID, f.buyer.ID))

	messages, err := ListMessages(f.db, thread.ID, f.buyer.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for _, m := range messages {
		if m.SenderID == f.sellerUser.ID {
			require.True(t, m.IsRead)
		} else {
			// The reader's own outgoing message stays unread for the seller.
			require.False(t, m.IsRead)
		}
	}

	outsider := models.User{Name: "Noor", Email: "noor2@example.com", Role: models.RoleBuyer}
	require.NoError(t, f.db.Create(&outsider).Error)
	require.ErrorIs(t, MarkRead(f.db, thread.ID, outsider.ID), ErrNotParticipant)
}

func TestAppointmentMessages(t *testing.T) {
	f := newFixture(t)

	_, err := SendAppointmentMessage(f.db, f.appointment.ID, f.buyer.ID, "gate code is 4411")
	require.NoError(t, err)
	_, err = SendAppointmentMessage(f.db, f.appointment.ID, f.sellerUser.ID, "got it, on my way")
	require.NoError(t, err)

	_, err = SendAppointmentMessage(f.db, f.appointment.ID, f.buyer.ID, "")
	require.ErrorIs(t, err, ErrInvalidMessage)

	outsider := models.User{Name: "Noor", Email: "noor3@example.com", Role: models.RoleBuyer}
	require.NoError(t, f.db.Create(&outsider).Error)
	_, err = SendAppointmentMessage(f.db, f.appointment.ID, outsider.ID, "hello")
	require.ErrorIs(t, err, ErrNotParticipant)
	_, err = ListAppointmentMessages(f.db, f.appointment.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotParticipant)

	messages, err := ListAppointmentMessages(f.db, f.appointment.ID, f.sellerUser.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "gate code is 4411", messages[0].Body)
}

func TestSetPresenceUpserts(t *testing.T) {
	f := newFixture(t)

	SetPresence(f.db, f.seller.ID, true)
	var settings models.SellerChatSettings
	require.NoError(t, f.db.Where("seller_id = ?", f.seller.ID).First(&settings).Error)
	require.True(t, settings.IsOnline)
	require.Nil(t, settings.LastSeenAt)

	SetPresence(f.db, f.seller.ID, false)
	require.NoError(t, f.db.Where("seller_id = ?", f.seller.ID).First(&settings).Error)
	require.False(t, settings.IsOnline)
	require.NotNil(t, settings.LastSeenAt)

	var count int64
	require.NoError(t, f.db.Model(&models.SellerChatSettings{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
