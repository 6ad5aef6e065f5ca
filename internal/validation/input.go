package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinFullNameLength     = 2
	MaxFullNameLength     = 100
	MaxProposalNameLength = 200
	MaxFieldLength        = 5000
	MaxListItems          = 50
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateFullName проверяет полное имя пользователя.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("полное имя обязательно")
	}

	fullName = strings.TrimSpace(fullName)

	if err := ValidateLength("полное имя", fullName, MinFullNameLength, MaxFullNameLength); err != nil {
		return err
	}

	return nil
}

// ValidatePhone проверяет номер телефона. Пустое значение допустимо,
// телефон заполняется в профиле по желанию.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}

	phone = strings.TrimSpace(phone)

	phoneRegex := regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,19}$`)
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("некорректный формат номера телефона")
	}

	return nil
}

// ValidateProposalName проверяет название сохраняемого предложения.
func ValidateProposalName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("название предложения обязательно")
	}

	if err := ValidateLength("название предложения", name, 1, MaxProposalNameLength); err != nil {
		return err
	}

	return nil
}

// ValidatePrice проверяет строковое значение цены из формы:
// должно разбираться как число и быть строго положительным.
func ValidatePrice(price string) (float64, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, fmt.Errorf("цена обязательна")
	}

	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, fmt.Errorf("цена должна быть числом")
	}

	if value <= 0 {
		return 0, fmt.Errorf("цена должна быть больше нуля")
	}

	return value, nil
}

// FilterList отбрасывает пустые элементы списка шагов или результатов.
func FilterList(items []string) []string {
	filtered := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
