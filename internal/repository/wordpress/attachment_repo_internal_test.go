package wordpress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentURL(t *testing.T) {
	base := "https://blog.example.com/wp-content/uploads"

	assert.Equal(t, base+"/2024/05/x.png", attachmentURL(base, "2024/05/x.png"))
	assert.Equal(t, base+"/2024/05/x.png", attachmentURL(base, "/2024/05/x.png"))
	assert.Equal(t, "https://other.example/x.png", attachmentURL(base, "https://other.example/x.png"))
	assert.Equal(t, "http://other.example/x.png", attachmentURL(base, "http://other.example/x.png"))
}
