package helper

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"

	"unimart-io/unimart_api/configs"
)

func ImageUploadHelper(input interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cloudName := configs.LoadEnvFor("CLOUDINARY_CLOUDNAME")
	apiKey := configs.LoadEnvFor("CLOUDINARY_API_KEY")
	apiSecret := configs.LoadEnvFor("CLOUDINARY_API_SECRET")
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return "", err
	}

	uploadFolder := configs.LoadEnvFor("CLOUDINARY_UPLOAD_FOLDER")
	uploadParam, err := cld.Upload.Upload(ctx, input, uploader.UploadParams{Folder: uploadFolder})
	if err != nil {
		return "", err
	}
	return uploadParam.SecureURL, nil
}
