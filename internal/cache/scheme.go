package cache

var (
	bRender = []byte("render") // category -> sub-bucket, slug -> entryBytes
	bInfo   = []byte("info")   // bookkeeping
	kSchema = []byte("schema")
)

// schemaVersion is bumped whenever Entry changes shape.
const schemaVersion = "1"
