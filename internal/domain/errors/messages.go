package errors

import "strings"

var messages = map[string]map[string]string{
	"en": {
		"IDEMPOTENCY_KEY_MISSING":   "X-Idempotency-Key header is required",
		"IDEMPOTENCY_KEY_TOO_LONG":  "X-Idempotency-Key must be at most 64 characters",
		"IDEMPOTENCY_KEY_NOT_FOUND": "idempotency key not found",
		"PAYMENT_PROCESSING":        "a charge with this idempotency key is currently being processed",
		"CHARGE_NOT_FOUND":          "charge not found",
		"CHARGE_DECLINED":           "charge was declined by the payment gateway",
		"GATEWAY_UNAVAILABLE":       "payment gateway is unavailable, retry later",
		"INVALID_CHARGE_REQUEST":    "invalid charge request",
		"INVALID_CURRENCY":          "currency is not supported",
		"INTERNAL_ERROR":            "an internal error occurred",
	},
	"es": {
		"IDEMPOTENCY_KEY_MISSING":   "el encabezado X-Idempotency-Key es obligatorio",
		"IDEMPOTENCY_KEY_TOO_LONG":  "X-Idempotency-Key debe tener como maximo 64 caracteres",
		"IDEMPOTENCY_KEY_NOT_FOUND": "clave de idempotencia no encontrada",
		"PAYMENT_PROCESSING":        "un cobro con esta clave de idempotencia esta siendo procesado actualmente",
		"CHARGE_NOT_FOUND":          "cobro no encontrado",
		"CHARGE_DECLINED":           "el cobro fue rechazado por la pasarela de pago",
		"GATEWAY_UNAVAILABLE":       "la pasarela de pago no esta disponible, intente mas tarde",
		"INVALID_CHARGE_REQUEST":    "solicitud de cobro invalida",
		"INVALID_CURRENCY":          "moneda no soportada",
		"INTERNAL_ERROR":            "ocurrio un error interno",
	},
}

func catalog(code string) Messages {
	msgs := Messages{}
	for lang, byCode := range messages {
		if msg, ok := byCode[code]; ok {
			msgs[lang] = msg
		}
	}
	return msgs
}

func GetMessage(code string, lang string) string {
	base := baseLanguage(lang)

	if langMessages, ok := messages[base]; ok {
		if msg, ok := langMessages[code]; ok {
			return msg
		}
	}

	if base != "en" {
		if msg, ok := messages["en"][code]; ok {
			return msg
		}
	}

	return code
}

func Localize(err *AppError, lang string) *AppError {
	return err.Localize(lang)
}

func baseLanguage(lang string) string {
	base := strings.SplitN(lang, "-", 2)[0]
	return strings.TrimSpace(strings.ToLower(base))
}
