package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStorageOperation(t *testing.T) {
	before := testutil.ToFloat64(StorageOperationsTotal.WithLabelValues("put", "error"))
	RecordStorageOperation("put", 20*time.Millisecond, errors.New("timeout"))
	after := testutil.ToFloat64(StorageOperationsTotal.WithLabelValues("put", "error"))
	assert.Equal(t, before+1, after)
}

func TestRecordUploadCountsBytesOnlyOnSuccess(t *testing.T) {
	before := testutil.ToFloat64(UploadBytesTotal.WithLabelValues("video"))
	RecordUpload("video", 1024, nil)
	RecordUpload("video", 4096, errors.New("failed"))
	assert.Equal(t, before+1024, testutil.ToFloat64(UploadBytesTotal.WithLabelValues("video")))
}

func TestRecordReconcile(t *testing.T) {
	before := testutil.ToFloat64(ReconcileDeletedTotal)
	RecordReconcile(3, nil)
	RecordReconcile(0, errors.New("list failed"))
	assert.Equal(t, before+3, testutil.ToFloat64(ReconcileDeletedTotal))
	assert.GreaterOrEqual(t, testutil.ToFloat64(ReconcileRunsTotal.WithLabelValues("error")), 1.0)
}
