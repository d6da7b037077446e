package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/invoicing-api/internal/application/billing"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// CompanySettingsUseCase configuración de empresa: lectura, guardado con logo y marca blanca.
type CompanySettingsUseCase struct {
	tx      AccountTxRunner
	reader  SettingsReader
	cache   SettingsInvalidator
	storage FileStorage
	log     zerolog.Logger
	now     func() time.Time
}

// NewCompanySettingsUseCase construye el caso de uso. cache puede ser nil.
func NewCompanySettingsUseCase(tx AccountTxRunner, reader SettingsReader, cache SettingsInvalidator, storage FileStorage, log zerolog.Logger) *CompanySettingsUseCase {
	return &CompanySettingsUseCase{
		tx:      tx,
		reader:  reader,
		cache:   cache,
		storage: storage,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Get devuelve la configuración del usuario o los valores por defecto.
func (uc *CompanySettingsUseCase) Get(ctx context.Context, userID string) (*dto.CompanySettingsResponse, error) {
	s, err := uc.reader.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = entity.DefaultCompanySetting(userID)
	}
	return uc.toResponse(s), nil
}

// Save crea o actualiza la configuración del actor. Si llega logo se valida (jpg/png, 2 MB),
// se guarda antes de la transacción y se borra si ésta falla; el logo anterior se borra tras el commit.
func (uc *CompanySettingsUseCase) Save(ctx context.Context, actor billing.Actor, in dto.CompanySettingsRequest, logo *dto.Upload) (*dto.CompanySettingsResponse, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, domain.NewValidationError().Add("company_name", "requerido")
	}
	newLogo := ""
	if logo != nil {
		key, err := storeImage(ctx, uc.storage, LogoDir, logo, logoRules)
		if err != nil {
			return nil, err
		}
		newLogo = key
	}

	var (
		saved   *entity.CompanySetting
		oldLogo string
	)
	err := uc.tx.RunAccount(ctx, func(_ repository.UserRepository, settings repository.CompanySettingRepository, logs repository.ActivityLogRepository) error {
		current, err := settings.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		action := entity.ActionUpdated
		if current == nil {
			current = entity.DefaultCompanySetting(actor.UserID)
			current.ID = uuid.New().String()
			action = entity.ActionCreated
		}
		before := *current
		next := *current
		next.CompanyName = strings.TrimSpace(in.CompanyName)
		next.CompanyEmail = strings.TrimSpace(in.CompanyEmail)
		next.CompanyPhone = strings.TrimSpace(in.CompanyPhone)
		next.CompanyAddress = strings.TrimSpace(in.CompanyAddress)
		next.InvoiceFooter = strings.TrimSpace(in.InvoiceFooter)
		next.TIN = strings.TrimSpace(in.TIN)
		if p := strings.TrimSpace(in.InvoicePrefix); p != "" {
			next.InvoicePrefix = strings.ToUpper(p)
		}
		if c := strings.TrimSpace(in.Currency); c != "" {
			next.Currency = strings.ToUpper(c)
		}
		if sym := strings.TrimSpace(in.CurrencySymbol); sym != "" {
			next.CurrencySymbol = sym
		}
		if newLogo != "" {
			oldLogo = before.Logo
			next.Logo = newLogo
		}
		next.UpdatedAt = uc.now()

		if err := settings.Upsert(ctx, &next); err != nil {
			return err
		}
		saved = &next
		return logs.Create(ctx, actor.Activity(action, entity.ModelCompanySetting, next.ID, settingsChanges(&before, &next), next.UpdatedAt))
	})
	if err != nil {
		removeFile(ctx, uc.storage, newLogo, uc.log)
		return nil, err
	}

	if oldLogo != "" && oldLogo != newLogo {
		removeFile(ctx, uc.storage, oldLogo, uc.log)
	}
	uc.invalidate(ctx, actor.UserID)
	return uc.toResponse(saved), nil
}

// WhiteLabel actualiza colores y CSS de un usuario (el propio admin si UserID va vacío).
func (uc *CompanySettingsUseCase) WhiteLabel(ctx context.Context, actor billing.Actor, in dto.WhiteLabelRequest) (*dto.CompanySettingsResponse, error) {
	if !actor.Admin {
		return nil, domain.ErrForbidden
	}
	target := in.UserID
	if target == "" {
		target = actor.UserID
	}

	var saved *entity.CompanySetting
	err := uc.tx.RunAccount(ctx, func(users repository.UserRepository, settings repository.CompanySettingRepository, logs repository.ActivityLogRepository) error {
		if target != actor.UserID {
			u, err := users.GetByID(ctx, target)
			if err != nil {
				return err
			}
			if u == nil {
				return domain.ErrUserNotFound
			}
		}
		current, err := settings.GetByUserID(ctx, target)
		if err != nil {
			return err
		}
		if current == nil {
			current = entity.DefaultCompanySetting(target)
			current.ID = uuid.New().String()
		}
		before := *current
		next := *current
		if in.PrimaryColor != "" {
			next.PrimaryColor = in.PrimaryColor
		}
		if in.SecondaryColor != "" {
			next.SecondaryColor = in.SecondaryColor
		}
		next.CustomCSS = in.CustomCSS
		next.UpdatedAt = uc.now()

		if err := settings.Upsert(ctx, &next); err != nil {
			return err
		}
		saved = &next
		return logs.Create(ctx, actor.Activity(entity.ActionUpdated, entity.ModelCompanySetting, next.ID, settingsChanges(&before, &next), next.UpdatedAt))
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, target)
	return uc.toResponse(saved), nil
}

func (uc *CompanySettingsUseCase) invalidate(ctx context.Context, userID string) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, userID)
	}
}

func (uc *CompanySettingsUseCase) toResponse(s *entity.CompanySetting) *dto.CompanySettingsResponse {
	out := &dto.CompanySettingsResponse{
		CompanyName:    s.CompanyName,
		CompanyEmail:   s.CompanyEmail,
		CompanyPhone:   s.CompanyPhone,
		CompanyAddress: s.CompanyAddress,
		Logo:           s.Logo,
		LogoURL:        fileURL(uc.storage, s.Logo),
		PrimaryColor:   s.PrimaryColor,
		SecondaryColor: s.SecondaryColor,
		CustomCSS:      s.CustomCSS,
		InvoicePrefix:  s.Prefix(),
		InvoiceFooter:  s.InvoiceFooter,
		TIN:            s.TIN,
		Currency:       s.Currency,
		CurrencySymbol: s.Symbol(),
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// settingsChanges campos modificados con su nuevo valor.
func settingsChanges(before, after *entity.CompanySetting) map[string]any {
	changes := map[string]any{}
	diff(changes, "company_name", before.CompanyName, after.CompanyName)
	diff(changes, "company_email", before.CompanyEmail, after.CompanyEmail)
	diff(changes, "company_phone", before.CompanyPhone, after.CompanyPhone)
	diff(changes, "company_address", before.CompanyAddress, after.CompanyAddress)
	diff(changes, "logo", before.Logo, after.Logo)
	diff(changes, "primary_color", before.PrimaryColor, after.PrimaryColor)
	diff(changes, "secondary_color", before.SecondaryColor, after.SecondaryColor)
	diff(changes, "custom_css", before.CustomCSS, after.CustomCSS)
	diff(changes, "invoice_prefix", before.InvoicePrefix, after.InvoicePrefix)
	diff(changes, "invoice_footer", before.InvoiceFooter, after.InvoiceFooter)
	diff(changes, "tin", before.TIN, after.TIN)
	diff(changes, "currency", before.Currency, after.Currency)
	diff(changes, "currency_symbol", before.CurrencySymbol, after.CurrencySymbol)
	return changes
}

func diff(changes map[string]any, field, before, after string) {
	if before != after {
		changes[field] = after
	}
}
