package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/elevateacademy/portal-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

// AdminAuditLog records every mutating admin action to the audit table after
// the wrapped handler runs. The request body is captured as the new value;
// for updates and deletes the existing row is snapshotted as the old value.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := GetSession(c)
		if !ok {
			return c.Next()
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var oldValue datatypes.JSON
		var newValue datatypes.JSON

		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut || c.Method() == fiber.MethodPatch {
			if body := c.Body(); json.Valid(body) {
				newValue = datatypes.JSON(append([]byte(nil), body...))
			}
		}

		if resourceID > 0 && (c.Method() == fiber.MethodDelete || c.Method() == fiber.MethodPut || c.Method() == fiber.MethodPatch) {
			oldValue = snapshotResource(db, resource, resourceID)
		}

		err := c.Next()

		entry := model.AdminAuditLog{
			AdminID:     session.UserID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			OldValue:    oldValue,
			NewValue:    newValue,
			IPAddress:   c.IP(),
			Description: c.Method() + " " + c.Path(),
		}
		go db.Create(&entry)

		return err
	}
}

// snapshotResource reads the current row for before/after diffing. Unknown
// resources produce no snapshot rather than an error.
func snapshotResource(db *gorm.DB, resource string, id uint) datatypes.JSON {
	var record interface{}

	switch resource {
	case "users":
		var user model.User
		if err := db.First(&user, id).Error; err != nil {
			return nil
		}
		user.Sanitize()
		record = user
	case "courses":
		var course model.Course
		if err := db.First(&course, id).Error; err != nil {
			return nil
		}
		record = course
	case "reviews":
		var review model.Review
		if err := db.First(&review, id).Error; err != nil {
			return nil
		}
		record = review
	case "testimonials":
		var testimonial model.Testimonial
		if err := db.First(&testimonial, id).Error; err != nil {
			return nil
		}
		record = testimonial
	case "payments":
		var payment model.Payment
		if err := db.First(&payment, id).Error; err != nil {
			return nil
		}
		record = payment
	case "settings":
		var setting model.AppSetting
		if err := db.First(&setting, id).Error; err != nil {
			return nil
		}
		record = setting
	default:
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
