package services

import (
	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
)

type MediaUpload interface {
	FileUpload(file models.File) (string, error)
	RemoteUpload(url models.Url) (string, error)
}

type mediaUpload struct{}

func NewMediaUpload() MediaUpload {
	return &mediaUpload{}
}

func (*mediaUpload) FileUpload(file models.File) (string, error) {
	if err := configs.Validate.Struct(file); err != nil {
		return "", err
	}
	return helper.ImageUploadHelper(file.File)
}

func (*mediaUpload) RemoteUpload(url models.Url) (string, error) {
	if err := configs.Validate.Struct(url); err != nil {
		return "", err
	}
	return helper.ImageUploadHelper(url.Url)
}
