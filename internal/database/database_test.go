package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/task-list-api/internal/config"
	"github.com/yukikurage/task-list-api/internal/models"
)

func expectMissingTable(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DATABASE()")).
		WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow("task_list"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT SCHEMA_NAME from Information_schema.SCHEMATA")).
		WillReturnRows(sqlmock.NewRows([]string{"SCHEMA_NAME"}).AddRow("task_list"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM information_schema.tables")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
}

func TestMigrate_MySQLTablesUseBinaryCollation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	expectMissingTable(mock)
	mock.ExpectExec("CREATE TABLE `users` \\(.*\\)" + regexp.QuoteMeta(mysqlTableOptions)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	expectMissingTable(mock)
	mock.ExpectExec("CREATE TABLE `tasks` \\(.*\\)" + regexp.QuoteMeta(mysqlTableOptions)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_SQLiteEmailIsCaseSensitive(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.User{Email: "a@x.com", PasswordHash: "h"}).Error)
	require.NoError(t, db.Create(&models.User{Email: "A@x.com", PasswordHash: "h"}).Error)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "A@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDialector_UnknownDriver(t *testing.T) {
	_, err := Dialector(&config.Config{StoreDriver: config.DriverMongo})
	assert.Error(t, err)
}
