package flashmessages

import (
	"organize.it/configs/configslog"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Session anahtarları. Değerler []string olarak saklanır.
const (
	FlashSuccessKey = "flash_success"
	FlashErrorKey   = "flash_danger"
	FlashWarningKey = "flash_warning"
	FlashInfoKey    = "flash_info"

	flashFormDataKey = "flash_form_data"
)

var orderedKeys = []struct {
	key      string
	category string
}{
	{FlashSuccessKey, "success"},
	{FlashErrorKey, "danger"},
	{FlashWarningKey, "warning"},
	{FlashInfoKey, "info"},
}

// FlashMessage view'da gösterilen tek bir mesaj.
type FlashMessage struct {
	Category string
	Message  string
}

// SetFlashMessage mesajı bir sonraki isteğe taşınmak üzere session'a ekler.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	sess, err := utils.SessionStart(c)
	if err != nil {
		configslog.Log.Warn("Flash mesajı kaydedilemedi: session yok", zap.String("key", key), zap.Error(err))
		return err
	}
	existing, _ := sess.Get(key).([]string)
	sess.Set(key, append(existing, message))
	return sess.Save()
}

// GetFlashMessages bekleyen tüm mesajları okur ve session'dan siler.
func GetFlashMessages(c *fiber.Ctx) ([]FlashMessage, error) {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return nil, err
	}
	var messages []FlashMessage
	changed := false
	for _, k := range orderedKeys {
		values, ok := sess.Get(k.key).([]string)
		if !ok {
			continue
		}
		for _, v := range values {
			messages = append(messages, FlashMessage{Category: k.category, Message: v})
		}
		sess.Delete(k.key)
		changed = true
	}
	if changed {
		if err := sess.Save(); err != nil {
			return messages, err
		}
	}
	return messages, nil
}

// SetFlashFormData başarısız form gönderiminden sonra alanları yeniden doldurmak için saklar.
func SetFlashFormData(c *fiber.Ctx, data map[string]string) error {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return err
	}
	sess.Set(flashFormDataKey, data)
	return sess.Save()
}

// GetFlashFormData saklanan form verisini okur ve siler.
func GetFlashFormData(c *fiber.Ctx) map[string]string {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return map[string]string{}
	}
	data, ok := sess.Get(flashFormDataKey).(map[string]string)
	if !ok {
		return map[string]string{}
	}
	sess.Delete(flashFormDataKey)
	if err := sess.Save(); err != nil {
		configslog.Log.Warn("Flash form verisi silinemedi", zap.Error(err))
	}
	return data
}
