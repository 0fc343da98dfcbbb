package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errPlanNotFound    = "plan not found"
	errAccountNotFound = "account not found"
	errImageNotFound   = "image not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreatePlanFmt = "failed to create plan: %w"
	errFailedGetPlanFmt    = "failed to get plan: %w"
	errFailedListPlansFmt  = "failed to list plans: %w"
	errFailedScanPlanFmt   = "failed to scan plan: %w"
	errIteratePlansFmt     = "error iterating plans: %w"
	errFailedDeletePlanFmt = "failed to delete plan: %w"

	errFailedCreateAccountFmt = "failed to create account: %w"
	errFailedGetAccountFmt    = "failed to get account: %w"
	errFailedDeleteAccountFmt = "failed to delete account: %w"

	errFailedCreateImageFmt = "failed to create image: %w"
	errFailedGetImageFmt    = "failed to get image: %w"
	errFailedListImagesFmt  = "failed to list images: %w"
	errFailedScanImageFmt   = "failed to scan image: %w"
	errIterateImagesFmt     = "error iterating images: %w"
	errFailedUpdateImageFmt = "failed to update image: %w"
	errFailedDeleteImageFmt = "failed to delete image: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedCreatePlan = func(err error) error { return fmt.Errorf(errFailedCreatePlanFmt, err) }
	errFailedGetPlan    = func(err error) error { return fmt.Errorf(errFailedGetPlanFmt, err) }
	errFailedListPlans  = func(err error) error { return fmt.Errorf(errFailedListPlansFmt, err) }
	errFailedScanPlan   = func(err error) error { return fmt.Errorf(errFailedScanPlanFmt, err) }
	errIteratePlans     = func(err error) error { return fmt.Errorf(errIteratePlansFmt, err) }
	errFailedDeletePlan = func(err error) error { return fmt.Errorf(errFailedDeletePlanFmt, err) }

	errFailedCreateAccount = func(err error) error { return fmt.Errorf(errFailedCreateAccountFmt, err) }
	errFailedGetAccount    = func(err error) error { return fmt.Errorf(errFailedGetAccountFmt, err) }
	errFailedDeleteAccount = func(err error) error { return fmt.Errorf(errFailedDeleteAccountFmt, err) }

	errFailedCreateImage = func(err error) error { return fmt.Errorf(errFailedCreateImageFmt, err) }
	errFailedGetImage    = func(err error) error { return fmt.Errorf(errFailedGetImageFmt, err) }
	errFailedListImages  = func(err error) error { return fmt.Errorf(errFailedListImagesFmt, err) }
	errFailedScanImage   = func(err error) error { return fmt.Errorf(errFailedScanImageFmt, err) }
	errIterateImages     = func(err error) error { return fmt.Errorf(errIterateImagesFmt, err) }
	errFailedUpdateImage = func(err error) error { return fmt.Errorf(errFailedUpdateImageFmt, err) }
	errFailedDeleteImage = func(err error) error { return fmt.Errorf(errFailedDeleteImageFmt, err) }
)
