package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opptima/propel-backend/internal/models"
	"github.com/opptima/propel-backend/internal/validation"
)

// Ошибки клиента генерации, различаемые обработчиком ошибок.
var (
	// ErrTimeout возвращается, когда вебхук не ответил за отведённое время.
	ErrTimeout = errors.New("generator: время ожидания генерации истекло")
	// ErrNetwork возвращается при транспортной ошибке до вебхука.
	ErrNetwork = errors.New("generator: сервис генерации недоступен")
	// ErrResponseFormat возвращается, когда ответ вебхука не содержит
	// ожидаемых полей file64 и html.
	ErrResponseFormat = errors.New("generator: некорректный формат ответа генерации")
	// ErrInvalidForm возвращается при неполной форме до любого сетевого вызова.
	ErrInvalidForm = errors.New("generator: форма заполнена некорректно")
)

// UserInfo передаётся вебхуку вместе с формой.
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Result содержит итог генерации: DOCX в base64 и сырой HTML предпросмотра.
type Result struct {
	File64 string `json:"file64"`
	HTML   string `json:"html"`
}

// Client ходит в вебхук генерации предложений.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// NewClient создаёт клиент генерации. Таймаут фиксируется на весь запрос:
// генерация документа занимает десятки секунд.
func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate валидирует форму, отправляет её вебхуку и разбирает ответ.
// Валидация выполняется до любого сетевого вызова.
func (c *Client) Generate(ctx context.Context, form models.ProposalMetadata, user UserInfo) (*Result, error) {
	payload, err := c.buildPayload(form, user)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("generator: не удалось сериализовать форму: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("generator: не удалось создать запрос: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: код ответа %d", ErrNetwork, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseFormat, err)
	}

	if result.File64 == "" || result.HTML == "" {
		return nil, fmt.Errorf("%w: отсутствует file64 или html", ErrResponseFormat)
	}

	return &result, nil
}

// buildPayload собирает тело запроса с исходными именами полей формы.
// Цена уходит числом, пустые шаги и результаты отфильтровываются.
func (c *Client) buildPayload(form models.ProposalMetadata, user UserInfo) (map[string]interface{}, error) {
	required := map[string]string{
		"nombreCliente":     form.NombreCliente,
		"nombreEmpresa":     form.NombreEmpresa,
		"problemaActual":    form.ProblemaActual,
		"objetivoPrincipal": form.ObjetivoPrincipal,
		"solucionPropuesta": form.SolucionPropuesta,
		"fechaInicio":       form.FechaInicio,
		"nombreServicio":    form.NombreServicio,
		"duracion":          form.Duracion,
	}
	for field, value := range required {
		if err := validation.ValidateNonEmpty(field, value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
	}

	price, err := validation.ValidatePrice(form.Precio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	pasos := validation.FilterList(form.Pasos)
	if len(pasos) == 0 {
		return nil, fmt.Errorf("%w: нужен хотя бы один шаг", ErrInvalidForm)
	}
	entregables := validation.FilterList(form.Entregables)

	tono := form.Tono
	if tono == "" {
		tono = "Professional"
	}
	idioma := form.Idioma
	if idioma == "" {
		idioma = "Español"
	}

	return map[string]interface{}{
		"nombreCliente":     form.NombreCliente,
		"nombreEmpresa":     form.NombreEmpresa,
		"problemaActual":    form.ProblemaActual,
		"objetivoPrincipal": form.ObjetivoPrincipal,
		"solucionPropuesta": form.SolucionPropuesta,
		"fechaInicio":       form.FechaInicio,
		"nombreServicio":    form.NombreServicio,
		"precio":            price,
		"duracion":          form.Duracion,
		"pasos":             pasos,
		"entregables":       entregables,
		"tono":              tono,
		"idioma":            idioma,
		"userInfo":          user,
	}, nil
}

// isTimeout распознаёт таймаут http клиента.
func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
