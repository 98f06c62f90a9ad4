package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/svs-ops-api/internal/config"
	"github.com/sangkips/svs-ops-api/internal/domain/entity"
	"github.com/sangkips/svs-ops-api/internal/domain/enum"
	"github.com/sangkips/svs-ops-api/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func seedRBAC(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range enum.AllPermissions {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&entity.Permission{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to create permission %s: %w", name, err)
			}
		}

		var perms []entity.Permission
		if err := tx.Find(&perms).Error; err != nil {
			return err
		}
		byName := make(map[string]entity.Permission, len(perms))
		for _, p := range perms {
			byName[p.Name] = p
		}

		for roleName, permNames := range enum.RolePermissions {
			var role entity.Role
			err := tx.Where("name = ?", roleName).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = entity.Role{Name: roleName}
				for _, n := range permNames {
					role.Permissions = append(role.Permissions, byName[n])
				}
				if err := tx.Omit("Permissions.*").Create(&role).Error; err != nil {
					return fmt.Errorf("failed to create role %s: %w", roleName, err)
				}
				continue
			}
			if err != nil {
				return err
			}
			// admin always holds every permission, including ones added after it was seeded
			if roleName == enum.RoleAdmin {
				all := make([]entity.Permission, 0, len(permNames))
				for _, n := range permNames {
					all = append(all, byName[n])
				}
				if err := tx.Model(&role).Omit("Permissions.*").Association("Permissions").Append(all); err != nil {
					return fmt.Errorf("failed to grant permissions to %s: %w", roleName, err)
				}
			}
		}
		return nil
	})
}

func seedAdmin(db *gorm.DB, admin config.AdminConfig) (bool, error) {
	username := strings.ToLower(strings.TrimSpace(admin.Username))

	var existing int64
	if err := db.Model(&entity.User{}).Where("lower(username) = ?", username).Count(&existing).Error; err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return false, err
	}

	var adminRole entity.Role
	if err := db.Where("name = ?", enum.RoleAdmin).First(&adminRole).Error; err != nil {
		return false, err
	}

	user := entity.User{
		Username:     username,
		Email:        utils.DeriveEmail(username, admin.Email),
		PasswordHash: hash,
		Status:       enum.UserStatusActive,
		Roles:        []entity.Role{adminRole},
	}
	if err := db.Omit("Roles.*").Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
