package wire

// Container layout constants. All multi-byte integers are big-endian.
const (
	CONTAINER_MAGIC = 0x0BADFACE // Leading sentinel of every embedded container
	INNER_MAGIC     = 0x0BADFACE // Encrypted sentinel; verifies the password
	MAGIC_SIZE      = 4

	FLAGS_SIZE  = 4
	CYCLES_SIZE = 2
	LENGTH_SIZE = 8

	// HEADER_SIZE is magic(4) + flags(4) + cycles(2) + iv(16) + salt(16) + length(8)
	HEADER_SIZE = MAGIC_SIZE + FLAGS_SIZE + CYCLES_SIZE + IV_SIZE + SALT_SIZE + LENGTH_SIZE
)

// Header field offsets
const (
	OFFSET_MAGIC  = 0
	OFFSET_FLAGS  = OFFSET_MAGIC + MAGIC_SIZE
	OFFSET_CYCLES = OFFSET_FLAGS + FLAGS_SIZE
	OFFSET_IV     = OFFSET_CYCLES + CYCLES_SIZE
	OFFSET_SALT   = OFFSET_IV + IV_SIZE
	OFFSET_LENGTH = OFFSET_SALT + SALT_SIZE
)

// Message flags
const (
	FLAG_FILE = 1 << 0 // Payload originated from a file rather than inline text
)

// Security constants
const (
	SALT_SIZE  = 16    // Key derivation salt
	IV_SIZE    = 16    // AES-CBC initialization vector
	KEY_SIZE   = 32    // AES-256 key size
	BLOCK_SIZE = 16    // AES block size
	MIN_CYCLES = 32767 // Lowest per-message hash iteration count
	MAX_CYCLES = 65534 // Highest per-message hash iteration count
)

// Compression framing
const (
	FRAME_LENGTH_SIZE = 8        // Uncompressed length prefix
	MAX_PREALLOC      = 64 << 20 // Cap on buffer pre-sizing from an untrusted prefix
)

// Steganography constants
const (
	DEFAULT_WIDTH     = 64 // Width of generated noise carriers (px)
	BITS_PER_CHANNEL  = 2  // Low bits used in each channel byte
	CHANNELS_PER_BYTE = 4  // Channel bytes needed to carry one source byte
	CHANNEL_MASK      = 0x03
)
