package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	m "github.com/ahscorp/hiring-hive-platform/internal/model"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seed records
var (
	TestAdminUser m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	TestLocationMumbai    m.Location
	TestLocationBangalore m.Location
	TestIndustryTech      m.Industry
	TestIndustryFinance   m.Industry

	// Published backend job in Mumbai with a salary band
	TestJobPublished1 m.Job
	// Published finance job in Bangalore without salary band
	TestJobPublished2 m.Job
	// Draft job, never visible publicly
	TestJobDraft m.Job

	TestApplication1 m.Application
	TestProfile1     m.GeneralProfile
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr:    true,
		Constr:       fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
		DBName:       dbName,
		QueryTimeout: 5 * time.Second,
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts an admin, lookup rows, three jobs and one submission of each kind.
func seedTestData(db *DBinstanceStruct) error {
	ctx := context.Background()

	admin, err := db.CreateAdmin(ctx, "admin@example.com", TestSeedPassword)
	if err != nil {
		return err
	}
	TestAdminUser = admin

	TestLocationMumbai = m.Location{City: "Mumbai", State: "Maharashtra"}
	TestLocationBangalore = m.Location{City: "Bangalore", State: "Karnataka"}
	if err := db.Create(&[]*m.Location{&TestLocationMumbai, &TestLocationBangalore}).Error; err != nil {
		return err
	}
	TestIndustryTech = m.Industry{Name: "Technology"}
	TestIndustryFinance = m.Industry{Name: "Finance"}
	if err := db.Create(&[]*m.Industry{&TestIndustryTech, &TestIndustryFinance}).Error; err != nil {
		return err
	}

	maxMid := 5
	maxSalary := int64(1000000)
	now := time.Now()

	TestJobPublished1 = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			JobRef:           "J1001",
			Title:            "Backend Engineer",
			Location:         m.JobLocation{City: "Mumbai", State: "Maharashtra"},
			Experience:       m.JobExperience{ID: "mid", Label: "3-5 years", MinYears: 3, MaxYears: &maxMid},
			Industry:         m.JobIndustry{Name: "Technology"},
			Department:       "Information Technology",
			KeySkills:        pq.StringArray{"Go", "PostgreSQL"},
			Description:      "Build and run the hiring platform services.",
			Responsibilities: pq.StringArray{"Own APIs", "Review code"},
			Salary:           m.JobSalary{ID: "mid", Label: "5-10 LPA", Min: 500000, Max: &maxSalary},
			Gender:           m.GenderAny,
			Status:           m.StatusPublished,
		},
		PostedAt:  now.Add(-2 * time.Hour),
		CreatedBy: &admin.ID,
	}
	TestJobPublished2 = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			JobRef:      "J1002",
			Title:       "Accounts Executive",
			Location:    m.JobLocation{City: "Bangalore", State: "Karnataka"},
			Experience:  m.JobExperience{ID: "junior", Label: "1-3 years", MinYears: 1},
			Industry:    m.JobIndustry{Name: "Finance"},
			Department:  "Account & Finance",
			KeySkills:   pq.StringArray{"Tally", "GST"},
			Description: "Handle ledgers and monthly closing.",
			Gender:      m.GenderFemale,
			Status:      m.StatusPublished,
		},
		PostedAt:  now.Add(-1 * time.Hour),
		CreatedBy: &admin.ID,
	}
	TestJobDraft = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			JobRef:      "J1003",
			Title:       "Operations Lead",
			Location:    m.JobLocation{City: "Mumbai", State: "Maharashtra"},
			Experience:  m.JobExperience{ID: "lead", Label: "10+ years", MinYears: 10},
			Industry:    m.JobIndustry{Name: "Technology"},
			Department:  "Operations",
			KeySkills:   pq.StringArray{"Planning"},
			Description: "Lead the operations team.",
			Status:      m.StatusDraft,
		},
		PostedAt:  now,
		CreatedBy: &admin.ID,
	}
	for _, j := range []*m.Job{&TestJobPublished1, &TestJobPublished2, &TestJobDraft} {
		if err := db.UpsertJob(ctx, j); err != nil {
			return err
		}
	}

	TestApplication1 = m.Application{
		JobID:     &TestJobPublished1.ID,
		Applicant: testApplicant("Asha Rao", "asha@example.com"),
	}
	if err := db.InsertApplication(ctx, &TestApplication1); err != nil {
		return err
	}
	TestProfile1 = m.GeneralProfile{Applicant: testApplicant("Vikram Shah", "vikram@example.com")}
	return db.InsertGeneralProfile(ctx, &TestProfile1)
}

func testApplicant(name, email string) m.Applicant {
	return m.Applicant{
		FullName:           name,
		Email:              email,
		Phone:              "9876543210",
		YearsOfExperience:  "4",
		CurrentCompany:     "Acme",
		CurrentDesignation: "Engineer",
		CurrentCTC:         "800000",
		CurrentTakeHome:    "55000",
		ExpectedCTC:        "1000000",
		NoticePeriod:       "30",
		Location:           "Mumbai",
		Department:         "Information Technology",
		ResumeURL:          "https://files.example.com/resumes/" + uuid.NewString() + ".pdf",
	}
}
