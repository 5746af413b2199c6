package sharedtest

import (
	"io/ioutil"
	"log"
	"net/http/httptest"
	"os"
	"path"
	"testing"

	"github.com/covergen/covergen-api/internal/shared/fsutil"
	app "github.com/covergen/covergen-api/pkg/api"
	"github.com/covergen/covergen-api/pkg/api/models"
	"github.com/gavv/httpexpect"
	"github.com/joho/godotenv"
)

type App struct {
	app              *app.App
	testserver       *httptest.Server
	fakeGithubServer *httptest.Server

	Schedulers *FakeSchedulers
}

func RunApp() *App {
	loadEnv()

	ta := App{
		Schedulers: &FakeSchedulers{},
	}
	ta.initFakeGithubServer()

	deps := ta.BuildCommonDeps()

	modifiers := []app.Modifier{
		app.SetProviderFactory(deps.ProviderFactory),
		app.SetDB(deps.DB),
		app.SetSchedulers(ta.Schedulers, ta.Schedulers),
	}

	ta.app = app.NewApp(modifiers...)

	// The migrations runner takes a redis lock and tests run without redis:
	// build the schema directly on the throwaway sqlite database.
	if err := deps.DB.AutoMigrate(&models.TrackedRepo{}, &models.ImprovementJob{}).Error; err != nil {
		log.Fatalf("Can't migrate test db: %s", err)
	}

	ta.testserver = httptest.NewServer(ta.app.GetHTTPHandler())

	return &ta
}

func (ta *App) NewHTTPExpect(t *testing.T) *httpexpect.Expect {
	return httpexpect.New(t, ta.testserver.URL)
}

func loadEnv() {
	envNames := []string{".env", ".env.test"}
	for _, envName := range envNames {
		fpath := path.Join(fsutil.GetProjectRoot(), envName)
		err := godotenv.Overload(fpath)
		if err != nil {
			log.Fatalf("Can't load %s: %s", fpath, err)
		}
	}

	// Every test binary gets its own sqlite file so test packages can run
	// in parallel without sharing a database.
	dir, err := ioutil.TempDir("", "covergen-test-db")
	if err != nil {
		log.Fatalf("Can't create test db dir: %s", err)
	}
	os.Setenv("DATABASE_URL", "sqlite3://"+path.Join(dir, "test.sqlite"))
}
