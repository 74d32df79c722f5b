package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/app/metrics.py b/app/metrics.py
index 1111111..2222222 100644
--- a/app/metrics.py
+++ b/app/metrics.py
@@ -3,0 +4,2 @@ import prometheus_client
+REQUESTS = Counter("requests_total", "Requests")
+ERRORS = Counter("errors_total", "Errors")
@@ -10 +12 @@ def handler():
-    pass
+    REQUESTS.inc()
@@ -20,3 +22,0 @@ def other():
diff --git a/old.py b/old.py
deleted file mode 100644
index 3333333..0000000
--- a/old.py
+++ /dev/null
@@ -1,2 +0,0 @@
-x = 1
-y = 2
`

func TestParseDiff(t *testing.T) {
	changes, err := parseDiff([]byte(sampleDiff))
	require.NoError(t, err)
	require.Len(t, changes, 2)

	metrics := changes[0]
	assert.Equal(t, "app/metrics.py", metrics.Path)
	assert.False(t, metrics.Deleted)
	assert.Equal(t, []int{4, 5, 12}, metrics.ChangedLines)
	assert.True(t, metrics.Touches(5))
	assert.False(t, metrics.Touches(22))

	old := changes[1]
	assert.Equal(t, "old.py", old.Path)
	assert.True(t, old.Deleted)
	assert.Empty(t, old.ChangedLines)
}

func TestParseDiff_Empty(t *testing.T) {
	changes, err := parseDiff(nil)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
