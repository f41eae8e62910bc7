// import_catalog da de alta en lote el software de una empresa a partir de un CSV
// exportado de una hoja de cálculo. Cada fila pasa por el mismo alta que la API
// (contrato opcional, uso activo del importador).
//
// Uso: go run ./cmd/import_catalog -company <id> -user <id> [-charset ISO-8859-1] catalogo.csv
//
// Columnas (cabecera obligatoria, orden libre): name, category, version, description,
// cost_amount, currency, billing_period, license_count, end_date, notice_days.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/logicielhub-api/internal/application/catalog"
	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/logicielhub-api/pkg/config"
	"github.com/jhoicas/logicielhub-api/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run importa el CSV y devuelve el código de salida; los defer se ejecutan antes de os.Exit.
func run() int {
	companyID := flag.String("company", "", "ID de la empresa destino")
	userID := flag.String("user", "", "ID del administrador que importa")
	charset := flag.String("charset", "UTF-8", "codificación del CSV (UTF-8, ISO-8859-1, Windows-1252)")
	flag.Parse()
	if *companyID == "" || *userID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_catalog -company <id> -user <id> [-charset ISO-8859-1] catalogo.csv")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("abrir CSV")
		return 1
	}
	defer f.Close()

	forms, err := readForms(f, *charset)
	if err != nil {
		log.Error().Err(err).Msg("leer CSV")
		return 1
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return 1
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	loader := usecase.NewCatalogLoader(repos.Software, repos.Contracts, repos.Reviews, repos.Usage)
	uc := catalog.NewCatalogUseCase(loader, repos.Software, repos.Contracts, repos.Reviews, postgres.NewTxRunner(pool), log.Component("import"))
	actor := usecase.Actor{UserID: *userID, CompanyID: *companyID, Role: entity.RoleAdmin}

	created, failed := importForms(ctx, uc, actor, forms, log.Component("import"))
	log.Info().Int("importados", created).Int("errores", failed).Msg("importación terminada")
	if failed > 0 {
		return 1
	}
	return 0
}

// softwareCreator el alta de software que usa la importación.
type softwareCreator interface {
	CreateSoftware(ctx context.Context, actor usecase.Actor, form dto.SoftwareForm) (*dto.SoftwareResponse, error)
}

// importForms da de alta cada formulario; una fila fallida no detiene las demás.
func importForms(ctx context.Context, uc softwareCreator, actor usecase.Actor, forms []dto.SoftwareForm, log zerolog.Logger) (created, failed int) {
	for i, form := range forms {
		sw, err := uc.CreateSoftware(ctx, actor, form)
		if err != nil {
			failed++
			log.Error().Err(err).Int("fila", i+2).Str("name", form.Name).Msg("fila no importada")
			continue
		}
		created++
		log.Debug().Str("software_id", sw.ID).Str("name", sw.Name).Bool("contrato", sw.Contract != nil).Msg("software importado")
	}
	return created, failed
}

// decoderFor envuelve r según la codificación indicada.
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToUpper(strings.ReplaceAll(charset, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return r, nil
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", charset)
}

// readForms convierte el CSV en formularios de alta. Acepta coma o punto y coma
// como separador (las hojas de cálculo en francés exportan con ';').
func readForms(r io.Reader, charset string) ([]dto.SoftwareForm, error) {
	in, err := decoderFor(r, charset)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	if header, _, _ := strings.Cut(text, "\n"); strings.Count(header, ";") > strings.Count(header, ",") {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true
	// Las hojas de cálculo omiten las celdas vacías del final de fila.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("CSV vacío")
		}
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	forms := []dto.SoftwareForm{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("name") == "" && get("category") == "" {
			continue
		}
		forms = append(forms, dto.SoftwareForm{
			Name:          get("name"),
			Category:      get("category"),
			Version:       get("version"),
			Description:   get("description"),
			CostAmount:    get("cost_amount"),
			Currency:      get("currency"),
			BillingPeriod: get("billing_period"),
			LicenseCount:  get("license_count"),
			EndDate:       get("end_date"),
			NoticeDays:    get("notice_days"),
		})
	}
	return forms, nil
}
